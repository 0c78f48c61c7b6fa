package entity

// ExportedDocument is a generated file that lives on local storage only
// until it has been handed to the client.
type ExportedDocument struct {
	Path     string
	FileName string
	Size     int64
}
