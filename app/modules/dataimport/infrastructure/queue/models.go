package importqueue

// CommitJob asks the worker to run the commit for a session that the
// admin chose to finish asynchronously. The session itself stays in
// memory; the job carries only its id.
type CommitJob struct {
	SessionID string `json:"session_id"`
}

// Kind returns the job type identifier for River.
func (CommitJob) Kind() string { return "import_commit" }
