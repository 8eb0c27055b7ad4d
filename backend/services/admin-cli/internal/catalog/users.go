package catalog

import (
	"strings"

	"batteryswap/backend/services/admin-cli/internal/models"
)

type UserQuery struct {
	Search string
	Role   string
}

// FilterUsers matches the search against name and email; order is kept.
func FilterUsers(users []models.User, q UserQuery) []models.User {
	search := normalizeSearch(q.Search)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if search != "" && !containsFold(u.Name, search) && !containsFold(u.Email, search) {
			continue
		}
		if !matchesAll(q.Role) && u.Role != strings.TrimSpace(q.Role) {
			continue
		}
		out = append(out, u)
	}
	return out
}
