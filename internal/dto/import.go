package dto

// FileUpload is one statement file offered to the import pipeline.
type FileUpload struct {
	Filename string
	Content  []byte
}

// FileImportResult reports the outcome of a single file within a batch.
type FileImportResult struct {
	FileName          string   `json:"fileName"`
	RowsParsed        int      `json:"rowsParsed"`
	Inserted          int      `json:"inserted"`
	SkippedDuplicates int      `json:"skippedDuplicates"`
	Errors            []string `json:"errors"`
}

// BatchImportResult aggregates the outcomes of all files in an import call.
// It is always returned fully populated, even when every file failed;
// only a storage failure surfaces as an operation error instead.
type BatchImportResult struct {
	TotalFiles             int                `json:"totalFiles"`
	TotalRowsParsed        int                `json:"totalRowsParsed"`
	TotalInserted          int                `json:"totalInserted"`
	TotalSkippedDuplicates int                `json:"totalSkippedDuplicates"`
	Files                  []FileImportResult `json:"files"`
}

// DeleteAllDataResult reports how many transactions a full data wipe removed.
type DeleteAllDataResult struct {
	TransactionsDeleted int64 `json:"transactionsDeleted"`
}
