package splitter

// Config is the run-wide split configuration. It is passed by value into
// every job so independent jobs can run in parallel.
type Config struct {
	ChunkSize  int64
	OutputDir  string // empty means next to each input file
	Overwrite  bool
	DryRun     bool
	BufferSize int // transfer buffer, utils.DefaultBufferSize when zero
}

type Part struct {
	Index     int
	Path      string
	Size      int64 // planned size
	Written   int64
	Completed bool
}

type Job struct {
	ID           string
	InputPath    string
	TotalSize    int64
	ChunkSize    int64
	OutputDir    string
	Parts        []Part
	Existing     []string // planned part paths already on disk
	Stale        []string // parts of an earlier layout that are not planned now
	BytesWritten int64
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

type SkipReason string

const ReasonUserDeclined SkipReason = "UserDeclined"

type ErrorKind string

const (
	KindInvalidSize          ErrorKind = "NonPositiveSize"
	KindUnsupportedFile      ErrorKind = "UnsupportedFile"
	KindOutputDirNotWritable ErrorKind = "OutputDirNotWritable"
	KindReadError            ErrorKind = "ReadError"
	KindWriteError           ErrorKind = "WriteError"
	KindTooManyParts         ErrorKind = "TooManyParts"
	KindCancelled            ErrorKind = "Cancelled"
	KindUnknown              ErrorKind = "Unknown"
)

// Result is the reported outcome of one job.
type Result struct {
	InputPath    string
	Job          *Job // nil when planning failed
	Status       Status
	DryRun       bool
	PartsWritten int
	BytesWritten int64
	StaleRemoved int
	Reason       SkipReason
	Kind         ErrorKind
	Err          error
}

// Confirmer decides whether existing parts may be replaced.
type Confirmer interface {
	Confirm(job *Job, existing []string) (bool, error)
}

type ConfirmFunc func(job *Job, existing []string) (bool, error)

func (f ConfirmFunc) Confirm(job *Job, existing []string) (bool, error) {
	return f(job, existing)
}

type ProgressFunc func(written, total int64)
