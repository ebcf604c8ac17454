package database

// Document is a submitted file under review.
type Document struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type" json:"type"`
	URL   string `yaml:"url" json:"url"`
	Pages int    `yaml:"pages" json:"pages"`
}

// Metadata describes the submission context of a document.
type Metadata struct {
	SubmittedDate   string `yaml:"submitted_date" json:"submitted_date"`
	Sponsor         string `yaml:"sponsor" json:"sponsor"`
	Requirement     string `yaml:"requirement" json:"requirement"`
	Status          string `yaml:"status" json:"status"`
	SubmissionCount int    `yaml:"submission_count" json:"submission_count"`
	FileSize        string `yaml:"file_size" json:"file_size"`
	Format          string `yaml:"format" json:"format"`
}

// Comment is a reviewer remark on a document.
type Comment struct {
	ID                string `yaml:"id" json:"id"`
	Author            string `yaml:"author" json:"author"`
	Role              string `yaml:"role" json:"role"`
	Timestamp         string `yaml:"timestamp" json:"timestamp"`
	Content           string `yaml:"content" json:"content"`
	IsRevisionRequest bool   `yaml:"is_revision_request" json:"is_revision_request"`
}

// HistoryItem is an entry of a document's submission history.
type HistoryItem struct {
	ID       string        `yaml:"id" json:"id"`
	Date     string        `yaml:"date" json:"date"`
	Action   string        `yaml:"action" json:"action"`
	Reviewer string        `yaml:"reviewer" json:"reviewer"`
	Comment  string        `yaml:"comment" json:"comment"`
	Status   HistoryStatus `yaml:"status" json:"status"`
}

// Version is one submitted revision of a document.
type Version struct {
	ID            string        `yaml:"id" json:"id"`
	Version       int           `yaml:"version" json:"version"`
	SubmittedDate string        `yaml:"submitted_date" json:"submitted_date"`
	Status        VersionStatus `yaml:"status" json:"status"`
	Changes       string        `yaml:"changes" json:"changes"`
}

// Review bundles everything the document review screen is initialized with.
type Review struct {
	Document Document      `yaml:"document" json:"document"`
	Metadata Metadata      `yaml:"metadata" json:"metadata"`
	History  []HistoryItem `yaml:"history" json:"history"`
	Comments []Comment     `yaml:"comments" json:"comments"`
	Versions []Version     `yaml:"versions" json:"versions"`
}

// Activity is an entry of the dashboard activity feed.
type Activity struct {
	ID          int          `yaml:"id" json:"id"`
	Type        ActivityType `yaml:"type" json:"type"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description"`
	Timestamp   string       `yaml:"timestamp" json:"timestamp"`
	Sponsor     string       `yaml:"sponsor" json:"sponsor"`
}
