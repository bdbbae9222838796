package interfaces

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// SchedulerInterface owns the background jobs of the daemon: snapshot
// persistence and idle session eviction.
type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
