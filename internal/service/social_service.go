package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

// DefaultBusinessName appears in milestone posts when the caller gives no name
const DefaultBusinessName = "Smart Invoice"

type postTemplate struct {
	milestone int
	text      string
	hashtags  []string
}

// postTemplates are ordered by milestone
var postTemplates = []postTemplate{
	{
		milestone: 1,
		text:      "🎉 Just created my first invoice with Smart Invoice! Excited to start this journey. #FirstInvoice #BusinessGrowth",
		hashtags:  []string{"#FirstInvoice", "#BusinessGrowth", "#SmartInvoice"},
	},
	{
		milestone: 5,
		text:      "📈 Reached 5 invoices created! Building momentum in my business. Thanks to Smart Invoice for making it easy! #BusinessMilestone #InvoiceManagement",
		hashtags:  []string{"#BusinessMilestone", "#InvoiceManagement", "#GrowingBusiness"},
	},
	{
		milestone: 10,
		text:      "🚀 10 invoices down! My business is growing stronger every day. Grateful for tools like Smart Invoice that keep things organized. #BusinessGrowth #EntrepreneurLife",
		hashtags:  []string{"#BusinessGrowth", "#EntrepreneurLife", "#InvoiceSuccess"},
	},
	{
		milestone: 25,
		text:      "💪 Quarter century of invoices! 25 invoices created and counting. Smart Invoice has been instrumental in my business success. #BusinessMilestone #SuccessStory",
		hashtags:  []string{"#BusinessMilestone", "#SuccessStory", "#BusinessTools"},
	},
	{
		milestone: 50,
		text:      "🎊 50 invoices achieved! What an incredible journey. Smart Invoice has helped me stay organized and professional. Here's to more growth! #BusinessAchievement #InvoiceMaster",
		hashtags:  []string{"#BusinessAchievement", "#InvoiceMaster", "#BusinessSuccess"},
	},
	{
		milestone: 100,
		text:      "🌟 Century mark reached! 100 invoices created with Smart Invoice. This platform has been a game-changer for my business operations. #CenturyClub #BusinessExcellence",
		hashtags:  []string{"#CenturyClub", "#BusinessExcellence", "#InvoicePro"},
	},
}

var motivations = []string{
	"Keep pushing forward! 💪",
	"Every invoice brings you closer to your goals! 🎯",
	"Your hard work is paying off! 🌟",
	"Success is built one invoice at a time! 🏗️",
	"You're building something amazing! 🚀",
	"Your business is growing stronger every day! 📈",
	"Stay focused and keep creating! 🎯",
	"You're on the path to greatness! 🌟",
	"One invoice at a time, you're building an empire! 👑",
	"Your dedication is inspiring! 💫",
}

// SocialService writes milestone posts from a fixed template set
type SocialService struct {
	invoices *InvoiceService
	pick     func(n int) int
}

// NewSocialService creates a new social post service
func NewSocialService(invoices *InvoiceService) *SocialService {
	return &SocialService{
		invoices: invoices,
		pick:     rand.Intn,
	}
}

// Milestones returns the milestones a post template exists for
func Milestones() []int {
	milestones := make([]int, len(postTemplates))
	for i, t := range postTemplates {
		milestones[i] = t.milestone
	}
	return milestones
}

// Post renders the share post for a milestone
func (s *SocialService) Post(req *domain.SocialPostRequest) (*domain.SocialPost, error) {
	if req.Milestone <= 0 {
		return nil, NewValidationError("milestone", "milestone is required and must be a positive number")
	}

	var tmpl *postTemplate
	for i := range postTemplates {
		if postTemplates[i].milestone == req.Milestone {
			tmpl = &postTemplates[i]
			break
		}
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: no post template for milestone %d", ErrNotFound, req.Milestone)
	}

	name := strings.TrimSpace(req.BusinessName)
	text := tmpl.text
	if name != "" {
		text = strings.ReplaceAll(text, DefaultBusinessName, name)
	} else {
		name = DefaultBusinessName
	}

	return &domain.SocialPost{
		Post:         text + "\n\n" + motivations[s.pick(len(motivations))],
		Hashtags:     append([]string(nil), tmpl.hashtags...),
		Milestone:    tmpl.milestone,
		BusinessName: name,
	}, nil
}

// Progress counts the owner's invoices and finds the next milestone above that count
func (s *SocialService) Progress(ctx context.Context, ownerID string) (*domain.MilestoneProgress, error) {
	invoices, err := s.invoices.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	progress := &domain.MilestoneProgress{
		CurrentCount:        len(invoices),
		AvailableMilestones: Milestones(),
	}
	for _, t := range postTemplates {
		if t.milestone > progress.CurrentCount {
			next := t.milestone
			progress.NextMilestone = &next
			break
		}
	}

	return progress, nil
}
