package httpapi

// Request bodies. Coordinates are pointers so 0 survives the required
// check; bounds live in the domain.

type autoJoinRequest struct {
	Username string `json:"username" validate:"required,max=32"`
}

type confirmBoardRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type rerollBoardRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type fireShotRequest struct {
	ShooterID string `json:"shooterId" validate:"required"`
	X         *int   `json:"x" validate:"required"`
	Y         *int   `json:"y" validate:"required"`
}

type pauseGameRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type forfeitGameRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type resumeGameRequest struct {
	Token string `json:"token" validate:"required"`
}
