package models

// Episode is one published episode as stored in the local episodes table.
// Media fields are kept as text so the store file stays portable across
// hosting setups; FileSize is the decimal byte count rendered as a string.
// ID is zero until the store assigns it on insert.
type Episode struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	FileURI     string `db:"file_uri"`
	FileType    string `db:"file_type"`
	FileSize    string `db:"file_size"`
	Duration    string `db:"duration"`
	IsExplicit  string `db:"is_explicit"`
	Published   string `db:"published"`
}
