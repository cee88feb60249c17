package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/internal/birthday"
	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/pkg/api"
	"github.com/mmynk/birthdays/pkg/api/apiconnect"
)

var _ apiconnect.BirthdayServiceHandler = (*BirthdayService)(nil)

// BirthdayService implements the Connect BirthdayService.
type BirthdayService struct {
	matcher *birthday.Matcher
}

// NewBirthdayService creates a new BirthdayService.
func NewBirthdayService(matcher *birthday.Matcher) *BirthdayService {
	return &BirthdayService{matcher: matcher}
}

// TodaysBirthdays lists the caller's group co-members and contacts born today.
func (s *BirthdayService) TodaysBirthdays(ctx context.Context, req *connect.Request[api.TodaysBirthdaysRequest]) (*connect.Response[api.BirthdaysResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("TodaysBirthdays request received", "user_id", userID)

	day, list, err := s.matcher.TodayFor(ctx, userID)
	if err != nil {
		slog.Error("TodaysBirthdays failed", "user_id", userID, "error", err)
		return nil, toConnectError("todays birthdays", err)
	}
	return connect.NewResponse(birthdaysResponse(day, list)), nil
}

// BirthdaysOn lists the birthdays on a given month and day.
func (s *BirthdayService) BirthdaysOn(ctx context.Context, req *connect.Request[api.BirthdaysOnRequest]) (*connect.Response[api.BirthdaysResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("BirthdaysOn request received",
		"user_id", userID,
		"month", req.Msg.Month,
		"day", req.Msg.Day,
	)

	day, err := birthday.NewDay(int(req.Msg.Month), int(req.Msg.Day))
	if err != nil {
		return nil, toConnectError("birthdays on", err)
	}
	list, err := s.matcher.On(ctx, userID, day)
	if err != nil {
		slog.Error("BirthdaysOn failed", "user_id", userID, "error", err)
		return nil, toConnectError("birthdays on", err)
	}
	return connect.NewResponse(birthdaysResponse(day, list)), nil
}

func birthdaysResponse(day birthday.Day, list *models.BirthdayList) *api.BirthdaysResponse {
	return &api.BirthdaysResponse{
		Month:     int32(day.Month),
		Day:       int32(day.Day),
		Count:     int32(list.Count),
		Birthdays: toAPIBirthdays(list),
	}
}
