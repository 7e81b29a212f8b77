package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/repositories"
)

func newSkillFixture(followerCount int) (*SkillService, *fakeNotificationRepo) {
	notifications := newFakeNotificationRepo()
	follows := followersOf("star", followerCount)
	notifier := NewNotificationService(notifications, follows)
	return NewSkillService(newFakeSkillRepo(), notifier), notifications
}

func TestAddSkill_BroadcastsToEveryFollower(t *testing.T) {
	svc, notifications := newSkillFixture(3)

	skill, err := svc.AddSkill(context.Background(), "star", models.AddSkillRequest{
		Category:    "music",
		Subcategory: "guitar",
	})
	require.NoError(t, err)
	require.Equal(t, "star", skill.UserID)

	created := notifications.all()
	require.Len(t, created, 3)
	for _, n := range created {
		require.Equal(t, models.NotificationNewSkill, n.Type)
		require.Equal(t, skill.ID.Hex(), n.Data["skill_id"])
		require.Equal(t, "music", n.Data["category"])
		require.Equal(t, "guitar", n.Data["subcategory"])
	}
}

func TestUpdateSkill_NoNewLinksNoBroadcast(t *testing.T) {
	svc, notifications := newSkillFixture(3)

	skill, err := svc.AddSkill(context.Background(), "star", models.AddSkillRequest{
		Category:     "music",
		Subcategory:  "guitar",
		YoutubeLinks: []string{"https://youtu.be/a", "https://youtu.be/b"},
	})
	require.NoError(t, err)
	addNotifications := len(notifications.all())

	// Re-submitting the same links is not a new-video event.
	_, err = svc.UpdateSkill(context.Background(), "star", skill.ID.Hex(), models.UpdateSkillRequest{
		YoutubeLinks: []string{"https://youtu.be/b", "https://youtu.be/a"},
	})
	require.NoError(t, err)
	require.Len(t, notifications.all(), addNotifications)
}

func TestUpdateSkill_BroadcastsAddedLinkCount(t *testing.T) {
	svc, notifications := newSkillFixture(2)

	skill, err := svc.AddSkill(context.Background(), "star", models.AddSkillRequest{
		Category:     "music",
		Subcategory:  "guitar",
		YoutubeLinks: []string{"https://youtu.be/a"},
	})
	require.NoError(t, err)
	before := len(notifications.all())

	updated, err := svc.UpdateSkill(context.Background(), "star", skill.ID.Hex(), models.UpdateSkillRequest{
		YoutubeLinks: []string{"https://youtu.be/a", "https://youtu.be/b", "https://youtu.be/c"},
	})
	require.NoError(t, err)
	require.Len(t, updated.YoutubeLinks, 3)

	fresh := notifications.all()[before:]
	require.Len(t, fresh, 2)
	for _, n := range fresh {
		require.Equal(t, models.NotificationNewVideo, n.Type)
		// Count of newly added links, not the total.
		require.Equal(t, 2, n.Data["video_count"])
		require.Equal(t, skill.ID.Hex(), n.Data["skill_id"])
	}
}

func TestUpdateSkill_AppliesPartialFields(t *testing.T) {
	svc, _ := newSkillFixture(0)

	skill, err := svc.AddSkill(context.Background(), "star", models.AddSkillRequest{
		Category:    "music",
		Subcategory: "guitar",
		SkillLevel:  "beginner",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSkill(context.Background(), "star", skill.ID.Hex(), models.UpdateSkillRequest{
		SkillLevel: "advanced",
	})
	require.NoError(t, err)
	require.Equal(t, "advanced", updated.SkillLevel)
	require.Equal(t, "music", updated.Category)
	require.Equal(t, "guitar", updated.Subcategory)
}

func TestUpdateSkill_UnknownSkill(t *testing.T) {
	svc, _ := newSkillFixture(0)

	_, err := svc.UpdateSkill(context.Background(), "star", "656e6f7567682062797465732121", models.UpdateSkillRequest{})
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDiffLinks_SkipsEmptyEntries(t *testing.T) {
	added := diffLinks([]string{"a"}, []string{"", "a", "b"})
	require.Equal(t, []string{"b"}, added)
}
