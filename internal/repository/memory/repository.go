package memory

import (
	"sync"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

// Repository memoizes upstream league data for the lifetime of one run.
type Repository struct {
	league  *models.League
	users   map[string]models.User
	rosters []models.Roster
	mu      sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveLeague(league *models.League) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.league = league
}

func (r *Repository) GetLeague() *models.League {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.league
}

func (r *Repository) SaveUsers(users map[string]models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = users
}

func (r *Repository) GetUsers() map[string]models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users
}

func (r *Repository) SaveRosters(rosters []models.Roster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rosters = rosters
}

func (r *Repository) GetRosters() []models.Roster {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rosters
}

func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.league = nil
	r.users = nil
	r.rosters = nil
}
