package services

import (
	"context"

	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/repositories"
)

// SkillService owns skill mutations and their broadcast notification
// triggers: a new skill notifies every follower, and an update that attaches
// previously unseen video links notifies followers with the count of added
// links.
type SkillService struct {
	skills   repositories.SkillRepository
	notifier *NotificationService
}

// NewSkillService creates a new SkillService
func NewSkillService(skillRepo repositories.SkillRepository, notifier *NotificationService) *SkillService {
	return &SkillService{skills: skillRepo, notifier: notifier}
}

// AddSkill creates the skill and broadcasts a new_skill notification to the
// user's followers. The broadcast is best-effort and cannot fail the add.
func (s *SkillService) AddSkill(ctx context.Context, userID string, req models.AddSkillRequest) (*models.Skill, error) {
	skill := &models.Skill{
		UserID:       userID,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		Description:  req.Description,
		SkillLevel:   req.SkillLevel,
		YoutubeLinks: req.YoutubeLinks,
	}
	if err := s.skills.CreateSkill(ctx, skill); err != nil {
		return nil, err
	}

	s.notifier.NotifyFollowers(ctx, userID, models.NotificationNewSkill, map[string]interface{}{
		"skill_id":    skill.ID.Hex(),
		"category":    skill.Category,
		"subcategory": skill.Subcategory,
	})

	return skill, nil
}

// UpdateSkill applies the non-zero fields of req. When the update attaches
// video links that were not on the skill before, followers get a new_video
// notification carrying the number of added links, not the total.
func (s *SkillService) UpdateSkill(ctx context.Context, userID, skillID string, req models.UpdateSkillRequest) (*models.Skill, error) {
	skill, err := s.skills.GetSkill(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	var addedLinks []string
	if req.YoutubeLinks != nil {
		addedLinks = diffLinks(skill.YoutubeLinks, req.YoutubeLinks)
		skill.YoutubeLinks = req.YoutubeLinks
	}
	if req.Category != "" {
		skill.Category = req.Category
	}
	if req.Subcategory != "" {
		skill.Subcategory = req.Subcategory
	}
	if req.Description != "" {
		skill.Description = req.Description
	}
	if req.SkillLevel != "" {
		skill.SkillLevel = req.SkillLevel
	}

	if err := s.skills.UpdateSkill(ctx, skill); err != nil {
		return nil, err
	}

	if len(addedLinks) > 0 {
		s.notifier.NotifyFollowers(ctx, userID, models.NotificationNewVideo, map[string]interface{}{
			"skill_id":    skill.ID.Hex(),
			"category":    skill.Category,
			"subcategory": skill.Subcategory,
			"video_count": len(addedLinks),
		})
	}

	return skill, nil
}

// ListUserSkills returns the user's skills, newest first.
func (s *SkillService) ListUserSkills(ctx context.Context, userID string) ([]models.Skill, error) {
	return s.skills.ListByUser(ctx, userID)
}

// diffLinks returns the links present in updated but not in existing,
// skipping empty entries.
func diffLinks(existing, updated []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, link := range existing {
		seen[link] = struct{}{}
	}
	var added []string
	for _, link := range updated {
		if link == "" {
			continue
		}
		if _, ok := seen[link]; !ok {
			added = append(added, link)
		}
	}
	return added
}
