// internal/matching/dto.go
package matching

// DTOs for API requests/responses

type LikeRequest struct {
	TargetUserID int64 `json:"target_user_id" validate:"required,gt=0"`
}

type UnlikeRequest struct {
	TargetUserID int64 `json:"target_user_id" validate:"required,gt=0"`
}

type RespondRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type OverrideRequest struct {
	UserID       int64  `json:"user_id" validate:"required,gt=0"`
	TargetUserID int64  `json:"target_user_id" validate:"required,gt=0"`
	Status       string `json:"status" validate:"required,oneof=pending accepted rejected"`
}

// Response shapes

type LikeStatusResponse struct {
	Success bool `json:"success"`
	IsLiked bool `json:"is_liked"`
}

type PairStatusResponse struct {
	Success     bool    `json:"success"`
	HasLiked    bool    `json:"has_liked"`
	IsMatched   bool    `json:"is_matched"`
	MyStatus    *string `json:"my_status"`
	TheirStatus *string `json:"their_status"`
}

type LikedUsersResponse struct {
	Success    bool         `json:"success"`
	LikedUsers []*LikedUser `json:"liked_users"`
	Total      int          `json:"total"`
}

type MatchedUsersResponse struct {
	Success      bool           `json:"success"`
	MatchedUsers []*MatchedUser `json:"matched_users"`
	Total        int            `json:"total"`
}
