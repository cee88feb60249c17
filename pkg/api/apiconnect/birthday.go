package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/pkg/api"
)

// BirthdayServiceName is the fully-qualified name of the BirthdayService.
const BirthdayServiceName = "birthdays.v1.BirthdayService"

const (
	BirthdayServiceTodaysBirthdaysProcedure = "/" + BirthdayServiceName + "/TodaysBirthdays"
	BirthdayServiceBirthdaysOnProcedure     = "/" + BirthdayServiceName + "/BirthdaysOn"
)

// BirthdayServiceClient is a client for the BirthdayService.
type BirthdayServiceClient interface {
	TodaysBirthdays(context.Context, *connect.Request[api.TodaysBirthdaysRequest]) (*connect.Response[api.BirthdaysResponse], error)
	BirthdaysOn(context.Context, *connect.Request[api.BirthdaysOnRequest]) (*connect.Response[api.BirthdaysResponse], error)
}

// NewBirthdayServiceClient returns a client for the BirthdayService served at baseURL.
func NewBirthdayServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BirthdayServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &birthdayServiceClient{
		todaysBirthdays: connect.NewClient[api.TodaysBirthdaysRequest, api.BirthdaysResponse](httpClient, baseURL+BirthdayServiceTodaysBirthdaysProcedure, opts...),
		birthdaysOn:     connect.NewClient[api.BirthdaysOnRequest, api.BirthdaysResponse](httpClient, baseURL+BirthdayServiceBirthdaysOnProcedure, opts...),
	}
}

type birthdayServiceClient struct {
	todaysBirthdays *connect.Client[api.TodaysBirthdaysRequest, api.BirthdaysResponse]
	birthdaysOn     *connect.Client[api.BirthdaysOnRequest, api.BirthdaysResponse]
}

func (c *birthdayServiceClient) TodaysBirthdays(ctx context.Context, req *connect.Request[api.TodaysBirthdaysRequest]) (*connect.Response[api.BirthdaysResponse], error) {
	return c.todaysBirthdays.CallUnary(ctx, req)
}

func (c *birthdayServiceClient) BirthdaysOn(ctx context.Context, req *connect.Request[api.BirthdaysOnRequest]) (*connect.Response[api.BirthdaysResponse], error) {
	return c.birthdaysOn.CallUnary(ctx, req)
}

// BirthdayServiceHandler is the server side of the BirthdayService.
type BirthdayServiceHandler interface {
	TodaysBirthdays(context.Context, *connect.Request[api.TodaysBirthdaysRequest]) (*connect.Response[api.BirthdaysResponse], error)
	BirthdaysOn(context.Context, *connect.Request[api.BirthdaysOnRequest]) (*connect.Response[api.BirthdaysResponse], error)
}

// NewBirthdayServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewBirthdayServiceHandler(svc BirthdayServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BirthdayServiceName + "/", route(map[string]http.Handler{
		BirthdayServiceTodaysBirthdaysProcedure: connect.NewUnaryHandler(BirthdayServiceTodaysBirthdaysProcedure, svc.TodaysBirthdays, opts...),
		BirthdayServiceBirthdaysOnProcedure:     connect.NewUnaryHandler(BirthdayServiceBirthdaysOnProcedure, svc.BirthdaysOn, opts...),
	})
}
