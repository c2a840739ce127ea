package ports

// FileHasher hashes file contents on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=file_hasher.go -destination=mocks/mock_file_hasher.go -package=mocks
type FileHasher interface {
	// ComputeFileHash returns the content hash of the file at path.
	ComputeFileHash(path string) (uint64, error)
}
