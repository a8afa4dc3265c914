package webapp

import (
	"time"

	"github.com/kpellard/heronet/pkg/analysis"
)

// ErrorResponse represents error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Uptime     string    `json:"uptime"`
	NodeCount  int       `json:"node_count"`
	EdgeCount  int       `json:"edge_count"`
	ComputedAt time.Time `json:"computed_at,omitempty"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// RefreshRequest is the request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is the response body for token refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NeighborResponse is one co-appearance partner of a character.
type NeighborResponse struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// CharacterResponse is the body of GET /api/characters/{name}.
type CharacterResponse struct {
	*analysis.NodeMetrics
	Neighbors []NeighborResponse `json:"neighbors"`
}

// CommunityResponse is one detected community with its member names.
type CommunityResponse struct {
	ID      int      `json:"id"`
	Size    int      `json:"size"`
	Density float64  `json:"density"`
	Members []string `json:"members"`
}

// CommunitiesResponse is the body of GET /api/communities.
type CommunitiesResponse struct {
	Count       int                 `json:"count"`
	Modularity  float64             `json:"modularity"`
	Communities []CommunityResponse `json:"communities"`
}

// DistributionResponse is the body of GET /api/distribution.
type DistributionResponse struct {
	Stats          analysis.DegreeStats    `json:"stats"`
	HeavyTailShare float64                 `json:"heavy_tail_share"`
	Buckets        []analysis.DegreeBucket `json:"buckets"`
}

// RankingResponse is the body of GET /api/characters.
type RankingResponse struct {
	By         string                `json:"by"`
	Characters []analysis.RankedNode `json:"characters"`
}

// ReloadResponse is the body of POST /admin/reload.
type ReloadResponse struct {
	NodeCount   int    `json:"node_count"`
	EdgeCount   int    `json:"edge_count"`
	Communities int    `json:"communities"`
	Elapsed     string `json:"elapsed"`
}
