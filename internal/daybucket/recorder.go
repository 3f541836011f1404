package daybucket

// Recorder observes repository events. metrics.Collector satisfies it.
type Recorder interface {
	DuplicateDay(domain string)
	StorageFailure(domain, op string)
	Upserted(domain string, created bool)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) DuplicateDay(string)           {}
func (NopRecorder) StorageFailure(string, string) {}
func (NopRecorder) Upserted(string, bool)         {}
