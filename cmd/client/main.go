package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/lobby-sync/internal/config"
	"github.com/DoyleJ11/lobby-sync/internal/lobby"
	"github.com/DoyleJ11/lobby-sync/internal/room"
	"github.com/DoyleJ11/lobby-sync/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dialTimeout = 10 * time.Second

var errQuit = errors.New("quit")

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil && !errors.Is(err, errQuit) {
		logger.Fatal("client stopped", zap.Error(err))
	}
}

func run(cfg config.Client, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dctx, cancel := context.WithTimeout(ctx, dialTimeout)
	conn, err := transport.Dial(dctx, cfg.ServerURL, cfg.User, logger.Named("transport"))
	cancel()
	if err != nil {
		return err
	}

	s := lobby.NewSession(conn, room.NewRegistry(), logger.Named("session"))
	if err := s.Activate(); err != nil {
		_ = conn.Close()
		return err
	}
	fmt.Println(helpText)

	lines := make(chan string)
	g, gctx := errgroup.WithContext(ctx)

	// stdin is read on its own goroutine; the session only ever runs on the loop below.
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-gctx.Done():
				return
			}
		}
		close(lines)
	}()

	g.Go(func() error {
		defer s.Logout()
		ticker := time.NewTicker(cfg.Tick)
		defer ticker.Stop()
		last := time.Now()

		for {
			select {
			case <-gctx.Done():
				return nil

			case line, ok := <-lines:
				if !ok {
					return errQuit
				}
				if err := execute(s, line, logger); err != nil {
					return err
				}

			case now := <-ticker.C:
				events, err := s.Pump()
				if err != nil {
					return err
				}
				events = append(events, s.OnTick(now.Sub(last).Seconds())...)
				last = now
				for _, e := range events {
					if lost := render(e, logger); lost {
						return nil
					}
				}
			}
		}
	})
	return g.Wait()
}

func execute(s *lobby.Session, line string, logger *zap.Logger) error {
	cmd, err := parseCommand(line)
	if err != nil {
		fmt.Println(err)
		return nil
	}

	switch cmd.kind {
	case cmdNone:
	case cmdChat:
		_, err = s.SendChatMessage(cmd.text)
	case cmdCreate:
		err = s.CreateGame()
	case cmdJoin:
		err = s.JoinAsPlayer(cmd.roomID)
	case cmdWatch:
		err = s.JoinAsSpectator(cmd.roomID)
	case cmdLeave:
		err = s.LeaveRoom()
	case cmdRooms:
		for _, r := range s.Rooms() {
			fmt.Printf("#%d %s  (%s)\n", r.ID, r.Name, r.Details())
		}
	case cmdQuit:
		return errQuit
	}

	if errors.Is(err, lobby.ErrNotConnected) {
		return err
	}
	if err != nil {
		logger.Warn("intent failed", zap.Error(err))
	}
	return nil
}

// render prints e and reports whether the connection is gone.
func render(e lobby.Event, logger *zap.Logger) bool {
	switch v := e.(type) {
	case lobby.RoomAddedUI:
		fmt.Printf("+ #%d %s  (%s)\n", v.Room.ID, v.Room.Name, v.Room.Details())
	case lobby.RoomRemovedUI:
		fmt.Printf("- #%d\n", v.RoomID)
	case lobby.RoomUpdatedUI:
		fmt.Printf("~ #%d %s\n", v.RoomID, v.Room.Details())
	case lobby.RoomCreationFailedUI:
		fmt.Printf("could not create game: %s\n", v.Reason)
	case lobby.RoomJoinedUI:
		fmt.Printf("== %s ==\n", v.RoomName)
	case lobby.RoomJoinFailedUI:
		fmt.Printf("could not join: %s\n", v.Reason)
	case lobby.ChatAppendedUI:
		switch {
		case v.Entry.System:
			fmt.Printf("* %s\n", v.Entry.Text)
		case v.Entry.ShowHeader:
			fmt.Printf("%s:\n  %s\n", v.Entry.Label(), v.Entry.Text)
		default:
			fmt.Printf("  %s\n", v.Entry.Text)
		}
	case lobby.SuggestLeaveUI:
		fmt.Println("nobody joined your game yet. /leave to go back to the lobby")
	case lobby.OccupancyClampedUI:
		logger.Warn("authority reported impossible occupancy",
			zap.Int("room_id", v.RoomID),
			zap.Int("users", v.ReportedUsers),
			zap.Int("spectators", v.ReportedSpectators))
	case lobby.DisconnectedUI:
		fmt.Printf("disconnected: %s\n", v.Reason)
		return true
	}
	return false
}
