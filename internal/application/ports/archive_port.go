package ports

// ArchiveEntry archivo dentro de un ZIP.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// ArchiveBuilder empaqueta archivos en un ZIP en memoria.
type ArchiveBuilder interface {
	Build(entries []ArchiveEntry) ([]byte, error)
}
