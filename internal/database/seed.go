package database

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the initial data every screen is constructed with.
type Seed struct {
	Sponsors     []Sponsor     `yaml:"sponsors"`
	Directory    []SponsorRef  `yaml:"directory"`
	Requirements []Requirement `yaml:"requirements"`
	Review       *Review       `yaml:"review,omitempty"`
	Activities   []Activity    `yaml:"activities"`
}

// LoadSeed reads a YAML seed file. Sections missing from the file are taken
// from DefaultSeed. Assigned sponsors given only by id are resolved against
// the directory.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses YAML seed data; see LoadSeed.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	def := DefaultSeed()
	if len(seed.Sponsors) == 0 {
		seed.Sponsors = def.Sponsors
	}
	if len(seed.Directory) == 0 {
		seed.Directory = def.Directory
	}
	if len(seed.Requirements) == 0 {
		seed.Requirements = def.Requirements
	}
	if seed.Review == nil {
		seed.Review = def.Review
	}
	if len(seed.Activities) == 0 {
		seed.Activities = def.Activities
	}

	if err := seed.resolveAssignments(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) resolveAssignments() error {
	byID := make(map[string]SponsorRef, len(s.Directory))
	for _, ref := range s.Directory {
		byID[ref.ID] = ref
	}
	for i := range s.Requirements {
		req := &s.Requirements[i]
		for j, ref := range req.AssignedSponsors {
			if ref.Name != "" {
				continue
			}
			known, ok := byID[ref.ID]
			if !ok {
				return fmt.Errorf("requirement %q: unknown sponsor %q", req.ID, ref.ID)
			}
			req.AssignedSponsors[j] = known
		}
	}
	return nil
}

// DefaultSeed returns the portal's built-in sample data.
func DefaultSeed() *Seed {
	dir := []SponsorRef{
		{ID: "sp1", Name: "Acme Corporation", Email: "contact@acme.com"},
		{ID: "sp2", Name: "Global Industries", Email: "info@globalind.com"},
		{ID: "sp3", Name: "TechStart Solutions", Email: "hello@techstart.com"},
		{ID: "sp4", Name: "Premier Healthcare", Email: "admin@premierhc.com"},
		{ID: "sp5", Name: "Sunrise Financial", Email: "support@sunrisefin.com"},
	}

	return &Seed{
		Sponsors:     defaultSponsors(),
		Directory:    dir,
		Requirements: defaultRequirements(dir),
		Review:       defaultReview(),
		Activities:   defaultActivities(),
	}
}

func defaultSponsors() []Sponsor {
	return []Sponsor{
		{ID: 1, Name: "Acme Corporation", Status: SponsorActive, PlanCount: 3, ActiveRequirements: 5,
			LastActivity: "12/15/2024", ContactEmail: "contact@acmecorp.com", ContactPhone: "(555) 123-4567",
			Address: "123 Business Ave, New York, NY 10001", RegistrationDate: "01/15/2024", CompletionRate: 92},
		{ID: 2, Name: "Global Industries Inc", Status: SponsorActive, PlanCount: 5, ActiveRequirements: 8,
			LastActivity: "12/14/2024", ContactEmail: "info@globalind.com", ContactPhone: "(555) 234-5678",
			Address: "456 Corporate Blvd, Chicago, IL 60601", RegistrationDate: "02/20/2024", CompletionRate: 88},
		{ID: 3, Name: "TechStart Solutions", Status: SponsorPending, PlanCount: 1, ActiveRequirements: 2,
			LastActivity: "12/10/2024", ContactEmail: "admin@techstart.com", ContactPhone: "(555) 345-6789",
			Address: "789 Innovation Dr, San Francisco, CA 94102", RegistrationDate: "12/01/2024", CompletionRate: 45},
		{ID: 4, Name: "Healthcare Partners LLC", Status: SponsorActive, PlanCount: 4, ActiveRequirements: 6,
			LastActivity: "12/13/2024", ContactEmail: "contact@healthpartners.com", ContactPhone: "(555) 456-7890",
			Address: "321 Medical Plaza, Boston, MA 02101", RegistrationDate: "03/10/2024", CompletionRate: 95},
		{ID: 5, Name: "Manufacturing Co", Status: SponsorInactive, PlanCount: 2, ActiveRequirements: 0,
			LastActivity: "11/20/2024", ContactEmail: "info@mfgco.com", ContactPhone: "(555) 567-8901",
			Address: "654 Industrial Way, Detroit, MI 48201", RegistrationDate: "01/05/2024", CompletionRate: 78},
		{ID: 6, Name: "Retail Group International", Status: SponsorActive, PlanCount: 6, ActiveRequirements: 10,
			LastActivity: "12/16/2024", ContactEmail: "contact@retailgroup.com", ContactPhone: "(555) 678-9012",
			Address: "987 Commerce St, Los Angeles, CA 90001", RegistrationDate: "02/15/2024", CompletionRate: 90},
		{ID: 7, Name: "Financial Services Corp", Status: SponsorActive, PlanCount: 7, ActiveRequirements: 12,
			LastActivity: "12/15/2024", ContactEmail: "admin@finservices.com", ContactPhone: "(555) 789-0123",
			Address: "147 Wall Street, New York, NY 10005", RegistrationDate: "01/20/2024", CompletionRate: 94},
		{ID: 8, Name: "Education Foundation", Status: SponsorPending, PlanCount: 2, ActiveRequirements: 3,
			LastActivity: "12/12/2024", ContactEmail: "info@edufoundation.org", ContactPhone: "(555) 890-1234",
			Address: "258 Campus Drive, Austin, TX 78701", RegistrationDate: "11/25/2024", CompletionRate: 60},
	}
}

func defaultRequirements(dir []SponsorRef) []Requirement {
	return []Requirement{
		{
			ID:    "req1",
			Title: "Q4 2024 Financial Statement",
			Description: "Submit comprehensive financial statements for the fourth quarter of 2024 " +
				"including balance sheet, income statement, and cash flow analysis.",
			Type:               TypeFinancialReport,
			AssignedSponsors:   []SponsorRef{dir[0], dir[1]},
			DueDate:            "12/31/2024",
			Status:             RequirementInProgress,
			CompletionRate:     65,
			TotalDocuments:     3,
			SubmittedDocuments: 2,
			Priority:           PriorityHigh,
		},
		{
			ID:    "req2",
			Title: "Annual Compliance Audit Report",
			Description: "Complete annual compliance audit documentation covering all regulatory " +
				"requirements and internal policy adherence.",
			Type:               TypeComplianceDocument,
			AssignedSponsors:   []SponsorRef{dir[2]},
			DueDate:            "01/15/2025",
			Status:             RequirementPending,
			CompletionRate:     0,
			TotalDocuments:     5,
			SubmittedDocuments: 0,
			Priority:           PriorityHigh,
		},
		{
			ID:    "req3",
			Title: "Employee Benefits Plan Document",
			Description: "Updated employee benefits plan documentation reflecting changes in " +
				"coverage and contribution rates.",
			Type:               TypePlanDocument,
			AssignedSponsors:   []SponsorRef{dir[3], dir[4]},
			DueDate:            "01/30/2025",
			Status:             RequirementInProgress,
			CompletionRate:     40,
			TotalDocuments:     2,
			SubmittedDocuments: 1,
			Priority:           PriorityMedium,
		},
		{
			ID:    "req4",
			Title: "2024 Tax Filing Documents",
			Description: "All required tax filing documents including Form 5500, Schedule A, " +
				"and supporting documentation.",
			Type:               TypeTaxFiling,
			AssignedSponsors:   []SponsorRef{dir[0]},
			DueDate:            "12/20/2024",
			Status:             RequirementOverdue,
			CompletionRate:     30,
			TotalDocuments:     4,
			SubmittedDocuments: 1,
			Priority:           PriorityHigh,
		},
		{
			ID:    "req5",
			Title: "Investment Policy Statement",
			Description: "Updated investment policy statement outlining investment objectives, " +
				"strategies, and guidelines.",
			Type:               TypePlanDocument,
			AssignedSponsors:   []SponsorRef{dir[1], dir[2]},
			DueDate:            "02/15/2025",
			Status:             RequirementPending,
			CompletionRate:     0,
			TotalDocuments:     1,
			SubmittedDocuments: 0,
			Priority:           PriorityMedium,
		},
		{
			ID:    "req6",
			Title: "Quarterly Performance Report",
			Description: "Detailed quarterly performance analysis including key metrics, trends, " +
				"and comparative data.",
			Type:               TypeFinancialReport,
			AssignedSponsors:   []SponsorRef{dir[4]},
			DueDate:            "11/30/2024",
			Status:             RequirementCompleted,
			CompletionRate:     100,
			TotalDocuments:     2,
			SubmittedDocuments: 2,
			Priority:           PriorityLow,
		},
	}
}

func defaultReview() *Review {
	return &Review{
		Document: Document{
			ID:    "doc-001",
			Name:  "Q4_2024_Financial_Statement.pdf",
			Type:  "pdf",
			Pages: 12,
		},
		Metadata: Metadata{
			SubmittedDate:   "12/14/2024 at 2:30 PM",
			Sponsor:         "Acme Corporation",
			Requirement:     "Q4 2024 Financial Statement",
			Status:          "Pending Review",
			SubmissionCount: 2,
			FileSize:        "2.4 MB",
			Format:          "PDF",
		},
		History: []HistoryItem{
			{ID: "hist-003", Date: "12/14/2024 2:30 PM", Action: "Document Resubmitted", Reviewer: "Sponsor User",
				Comment: "Updated financial figures based on previous feedback. Added missing Q4 revenue " +
					"breakdown and corrected calculation errors in Section 3.",
				Status: HistorySubmitted},
			{ID: "hist-002", Date: "12/10/2024 11:15 AM", Action: "Document Rejected", Reviewer: "Sarah Johnson",
				Comment: "Missing Q4 revenue breakdown in Section 2. Please include detailed monthly figures and resubmit.",
				Status:  HistoryRejected},
			{ID: "hist-001", Date: "12/08/2024 9:00 AM", Action: "Initial Submission", Reviewer: "Sponsor User",
				Status: HistorySubmitted},
		},
		Comments: []Comment{
			{ID: "comment-001", Author: "Sarah Johnson", Role: "TPA Reviewer", Timestamp: "12/10/2024 11:20 AM",
				Content: "Please ensure all financial figures are audited and include supporting documentation " +
					"for major expenses listed in Section 4.",
				IsRevisionRequest: true},
			{ID: "comment-002", Author: "Michael Chen", Role: "Compliance Officer", Timestamp: "12/09/2024 3:45 PM",
				Content: "The document format looks good. Just need clarification on the revenue recognition method used."},
		},
		Versions: []Version{
			{ID: "ver-002", Version: 2, SubmittedDate: "12/14/2024 2:30 PM", Status: VersionPending,
				Changes: "Added Q4 revenue breakdown, corrected calculation errors, included supporting documentation"},
			{ID: "ver-001", Version: 1, SubmittedDate: "12/08/2024 9:00 AM", Status: VersionRejected,
				Changes: "Initial submission of Q4 financial statement"},
		},
	}
}

func defaultActivities() []Activity {
	return []Activity{
		{ID: 1, Type: ActivitySubmission, Title: "New Document Submitted",
			Description: "Annual Financial Report Q4 2024 uploaded for review", Timestamp: "5 minutes ago",
			Sponsor: "Acme Corporation"},
		{ID: 2, Type: ActivityApproval, Title: "Document Approved",
			Description: "Compliance Certificate has been approved and closed", Timestamp: "1 hour ago",
			Sponsor: "Global Enterprises"},
		{ID: 3, Type: ActivityRequirement, Title: "New Requirement Created",
			Description: "Q1 2025 Tax Documentation requirement assigned", Timestamp: "2 hours ago",
			Sponsor: "Tech Solutions Inc"},
		{ID: 4, Type: ActivityRejection, Title: "Document Rejected",
			Description: "Insurance Policy document requires resubmission", Timestamp: "3 hours ago",
			Sponsor: "Healthcare Partners"},
		{ID: 5, Type: ActivitySubmission, Title: "Document Resubmitted",
			Description: "Updated Audit Report with corrections uploaded", Timestamp: "4 hours ago",
			Sponsor: "Finance Group LLC"},
	}
}
