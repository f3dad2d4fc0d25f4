package domain

// SocialPostRequest asks for the share post of an invoice milestone
type SocialPostRequest struct {
	Milestone    int    `json:"milestone" validate:"required"`
	BusinessName string `json:"business_name,omitempty"`
}

// SocialPost is a ready-to-share milestone announcement
type SocialPost struct {
	Post         string   `json:"post"`
	Hashtags     []string `json:"hashtags"`
	Milestone    int      `json:"milestone"`
	BusinessName string   `json:"business_name"`
}

// MilestoneProgress reports how far an owner is from the next invoice milestone
type MilestoneProgress struct {
	CurrentCount        int   `json:"current_count"`
	NextMilestone       *int  `json:"next_milestone"` // nil once every milestone is passed
	AvailableMilestones []int `json:"available_milestones"`
}
