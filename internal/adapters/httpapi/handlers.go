package httpapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	chatqueries "github.com/mertbeyaz/battleship-go/internal/application/chat/queries"
	gameplaycommands "github.com/mertbeyaz/battleship-go/internal/application/gameplay/commands"
	gameplayqueries "github.com/mertbeyaz/battleship-go/internal/application/gameplay/queries"
	matchcommands "github.com/mertbeyaz/battleship-go/internal/application/matchmaking/commands"
	sessioncommands "github.com/mertbeyaz/battleship-go/internal/application/session/commands"
)

// resumeResponse is the wire shape of a resume attempt. The snapshot
// is the caller's own view; handshakeComplete says whether the game is
// running again.
type resumeResponse struct {
	HandshakeComplete bool        `json:"handshakeComplete"`
	Snapshot          interface{} `json:"snapshot"`
}

func (s *Server) autoJoin(c echo.Context) error {
	var req autoJoinRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := s.mediator.Send(c.Request().Context(), &matchcommands.AutoJoinCommand{
		Username: req.Username,
	})
	if err != nil {
		return err
	}
	result := response.(*matchcommands.AutoJoinResponse)
	return c.JSON(http.StatusOK, result.Lobby)
}

func (s *Server) confirmBoard(c echo.Context) error {
	var req confirmBoardRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := s.mediator.Send(c.Request().Context(), &gameplaycommands.ConfirmBoardCommand{
		GameCode: c.Param("code"),
		PlayerID: req.PlayerID,
		BoardID:  c.Param("boardId"),
	})
	if err != nil {
		return err
	}
	result := response.(*gameplaycommands.ConfirmBoardResponse)
	return c.JSON(http.StatusOK, result.Game)
}

func (s *Server) rerollBoard(c echo.Context) error {
	var req rerollBoardRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := s.mediator.Send(c.Request().Context(), &gameplaycommands.RerollBoardCommand{
		GameCode: c.Param("code"),
		PlayerID: req.PlayerID,
		BoardID:  c.Param("boardId"),
	})
	if err != nil {
		return err
	}
	result := response.(*gameplaycommands.RerollBoardResponse)
	return c.JSON(http.StatusOK, result.Board)
}

func (s *Server) fireShot(c echo.Context) error {
	var req fireShotRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := s.mediator.Send(c.Request().Context(), &gameplaycommands.FireShotCommand{
		GameCode:  c.Param("code"),
		ShooterID: req.ShooterID,
		X:         *req.X,
		Y:         *req.Y,
	})
	if err != nil {
		return err
	}
	result := response.(*gameplaycommands.FireShotResponse)
	return c.JSON(http.StatusOK, result.Shot)
}

func (s *Server) pauseGame(c echo.Context) error {
	var req pauseGameRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := s.mediator.Send(c.Request().Context(), &gameplaycommands.PauseGameCommand{
		GameCode: c.Param("code"),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		return err
	}
	result := response.(*gameplaycommands.PauseGameResponse)
	return c.JSON(http.StatusOK, result.Game)
}

func (s *Server) forfeitGame(c echo.Context) error {
	var req forfeitGameRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := s.mediator.Send(c.Request().Context(), &gameplaycommands.ForfeitGameCommand{
		GameCode: c.Param("code"),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		return err
	}
	result := response.(*gameplaycommands.ForfeitGameResponse)
	return c.JSON(http.StatusOK, result.Game)
}

func (s *Server) resumeGame(c echo.Context) error {
	var req resumeGameRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := s.mediator.Send(c.Request().Context(), &sessioncommands.ResumeGameCommand{
		Token: req.Token,
	})
	if err != nil {
		return err
	}
	result := response.(*sessioncommands.ResumeGameResponse)
	return c.JSON(http.StatusOK, resumeResponse{
		HandshakeComplete: result.HandshakeComplete,
		Snapshot:          result.Snapshot,
	})
}

func (s *Server) getGame(c echo.Context) error {
	response, err := s.mediator.Send(c.Request().Context(), &gameplayqueries.GetGameQuery{
		GameCode: c.Param("code"),
	})
	if err != nil {
		return err
	}
	result := response.(*gameplayqueries.GetGameResponse)
	return c.JSON(http.StatusOK, result.Game)
}

func (s *Server) getChatMessages(c echo.Context) error {
	response, err := s.mediator.Send(c.Request().Context(), &chatqueries.GetMessagesQuery{
		GameCode: c.Param("code"),
	})
	if err != nil {
		return err
	}
	result := response.(*chatqueries.GetMessagesResponse)
	return c.JSON(http.StatusOK, result.Messages)
}

// bind decodes and validates a request body in one step.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("malformed request body: %v", err))
	}
	return c.Validate(req)
}
