package ports

type TraceWriter interface {
	Write(v any) error
	Close() error
}

type SnapshotValidator interface {
	Validate(raw []byte) error
}
