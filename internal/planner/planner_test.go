package planner_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/planner"
)

func TestWeeklyPlan(t *testing.T) {
	t.Parallel()

	topic := "Engaging content for young professionals"
	want := models.PlanEntries{
		{ID: "plan-0", Day: "Monday", Platform: models.PlatformFacebook, Topic: topic, ContentType: "Educational", SuggestedTime: "10:00 AM"},
		{ID: "plan-1", Day: "Tuesday", Platform: models.PlatformInstagram, Topic: topic, ContentType: "Promotional", SuggestedTime: "10:00 AM"},
		{ID: "plan-2", Day: "Wednesday", Platform: models.PlatformLinkedIn, Topic: topic, ContentType: "Behind-the-scenes", SuggestedTime: "10:00 AM"},
		{ID: "plan-3", Day: "Thursday", Platform: models.PlatformTikTok, Topic: topic, ContentType: "User-generated", SuggestedTime: "10:00 AM"},
		{ID: "plan-4", Day: "Friday", Platform: models.PlatformFacebook, Topic: topic, ContentType: "Trending", SuggestedTime: "10:00 AM"},
		{ID: "plan-5", Day: "Saturday", Platform: models.PlatformInstagram, Topic: topic, ContentType: "Educational", SuggestedTime: "10:00 AM"},
		{ID: "plan-6", Day: "Sunday", Platform: models.PlatformLinkedIn, Topic: topic, ContentType: "Promotional", SuggestedTime: "10:00 AM"},
	}

	if diff := cmp.Diff(want, planner.WeeklyPlan("young professionals")); diff != "" {
		t.Errorf("WeeklyPlan() mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyPlan_AnyAudience(t *testing.T) {
	t.Parallel()

	for _, audience := range []string{"", "   ", "Ünïcødé fans", "a\nb"} {
		got := planner.WeeklyPlan(audience)
		if len(got) != 7 {
			t.Fatalf("WeeklyPlan(%q) returned %d entries, want 7", audience, len(got))
		}
		for i, e := range got {
			if e.Day != planner.Days[i] {
				t.Errorf("entry %d day = %q, want %q", i, e.Day, planner.Days[i])
			}
			if e.Platform != models.Platforms[i%4] {
				t.Errorf("entry %d platform = %q, want %q", i, e.Platform, models.Platforms[i%4])
			}
			if e.ContentType != planner.ContentTypes[i%5] {
				t.Errorf("entry %d content type = %q", i, e.ContentType)
			}
			if e.Topic != "Engaging content for "+audience {
				t.Errorf("entry %d topic = %q", i, e.Topic)
			}
		}
	}
}

func TestWeeklyPlan_Deterministic(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff(planner.WeeklyPlan("locals"), planner.WeeklyPlan("locals")); diff != "" {
		t.Errorf("two calls differ:\n%s", diff)
	}
}
