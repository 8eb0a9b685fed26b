// Package planner builds weekly content plans. Plans are synthesized from
// fixed rotations; no provider is called.
package planner

import (
	"fmt"

	"github.com/jonesrussell/postcraft/internal/models"
)

// SuggestedTime is the posting time given to every entry.
const SuggestedTime = "10:00 AM"

// Days is the plan order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ContentTypes rotate with period five.
var ContentTypes = []string{"Educational", "Promotional", "Behind-the-scenes", "User-generated", "Trending"}

// WeeklyPlan returns seven entries, one per day. Platforms rotate with
// period four and content types with period five. The audience text is used
// verbatim.
func WeeklyPlan(targetAudience string) models.PlanEntries {
	entries := make(models.PlanEntries, len(Days))
	for i, day := range Days {
		entries[i] = models.PlanEntry{
			ID:            fmt.Sprintf("plan-%d", i),
			Day:           day,
			Platform:      models.Platforms[i%len(models.Platforms)],
			Topic:         "Engaging content for " + targetAudience,
			ContentType:   ContentTypes[i%len(ContentTypes)],
			SuggestedTime: SuggestedTime,
		}
	}
	return entries
}
