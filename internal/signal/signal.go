// Package signal 解析游戏客户端上报的 key=value&... 请求体
package signal

import (
	"fmt"
	"strconv"
	"strings"

	"gabigame_backend/internal/util"
)

type Status int

const (
	StatusStart  Status = 1
	StatusFinish Status = 2
)

var headKeys = []string{"status", "userid", "gameid", "world", "level"}

type Signal struct {
	Status         Status
	UserID         uint
	GameID         uint
	World          int
	Level          int
	Moves          int
	FailedAttempts int
}

// Ignored status 既不是开始也不是完成时，信号被忽略
func (s Signal) Ignored() bool {
	return s.Status != StatusStart && s.Status != StatusFinish
}

func badSignal(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrBadSignal, fmt.Sprintf(format, args...))
}

func parsePair(pair, want string) (string, error) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok {
		return "", badSignal("expected %s=<value>, got %q", want, pair)
	}
	if key != want {
		return "", badSignal("expected key %q, got %q", want, key)
	}
	return value, nil
}

func parseInt(pair, want string) (int, error) {
	value, err := parsePair(pair, want)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, badSignal("%s is not an integer: %q", want, value)
	}
	return n, nil
}

func parseID(pair, want string) (uint, error) {
	value, err := parsePair(pair, want)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, badSignal("%s is not a valid id: %q", want, value)
	}
	return uint(n), nil
}

// Parse 前 5 个字段顺序固定；status=2 时第 6 段为 moves=..&failedattempts=..
func Parse(body string) (Signal, error) {
	parts := strings.SplitN(strings.TrimSpace(body), "&", len(headKeys)+1)
	if len(parts) < len(headKeys) {
		return Signal{}, badSignal("expected at least %d fields, got %d", len(headKeys), len(parts))
	}

	var (
		s   Signal
		err error
	)
	status, err := parseInt(parts[0], "status")
	if err != nil {
		return Signal{}, err
	}
	s.Status = Status(status)
	if s.UserID, err = parseID(parts[1], "userid"); err != nil {
		return Signal{}, err
	}
	if s.GameID, err = parseID(parts[2], "gameid"); err != nil {
		return Signal{}, err
	}
	if s.World, err = parseInt(parts[3], "world"); err != nil {
		return Signal{}, err
	}
	if s.Level, err = parseInt(parts[4], "level"); err != nil {
		return Signal{}, err
	}

	if s.Status != StatusFinish {
		return s, nil
	}

	if len(parts) != len(headKeys)+1 {
		return Signal{}, badSignal("finish signal requires moves and failedattempts")
	}
	tail := strings.Split(parts[5], "&")
	if len(tail) != 2 {
		return Signal{}, badSignal("expected moves and failedattempts, got %d fields", len(tail))
	}
	if s.Moves, err = parseInt(tail[0], "moves"); err != nil {
		return Signal{}, err
	}
	if s.FailedAttempts, err = parseInt(tail[1], "failedattempts"); err != nil {
		return Signal{}, err
	}
	return s, nil
}
