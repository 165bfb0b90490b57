package endpoint_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/adamwoolhether/soaper/endpoint"
)

func ExampleResponderFunc() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := endpoint.NewRegistry(nil, log)
	err := reg.Register("/echo", endpoint.ResponderFunc(func(ctx context.Context, req *endpoint.Request) ([]byte, error) {
		return req.Body, nil
	}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	srv := httptest.NewServer(endpoint.New(reg, endpoint.WithLogger(log)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/echo", "text/xml", strings.NewReader("<ping/>"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(resp.StatusCode, string(body))
	// Output: 200 <ping/>
}
