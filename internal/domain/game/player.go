package game

// Player is a participant of a game. IDs are server-minted opaque
// strings; usernames are display-only and may repeat across players.
type Player struct {
	ID       string
	Username string
}

func NewPlayer(id, username string) Player {
	return Player{ID: id, Username: username}
}
