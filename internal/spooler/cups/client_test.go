package cups

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/phin1x/go-ipp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/spooler"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	host, portStr, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return NewClient(&Config{Host: host, Port: port, User: "admin", Password: "secret"}, zap.NewNop())
}

func TestGetFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/conf/printers.conf", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("<Printer a>\nDeviceURI usb://x\n</Printer>\n"))
	})
	mux.HandleFunc("/admin/conf/forbidden", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/admin/conf/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, client.GetFile(ctx, "/admin/conf/printers.conf", &buf))
		assert.Contains(t, buf.String(), "DeviceURI usb://x")
	})

	t.Run("not found", func(t *testing.T) {
		err := client.GetFile(ctx, "/admin/conf/missing", &bytes.Buffer{})
		assert.ErrorIs(t, err, spooler.ErrNotFound)
	})

	t.Run("forbidden", func(t *testing.T) {
		err := client.GetFile(ctx, "/admin/conf/forbidden", &bytes.Buffer{})
		assert.ErrorIs(t, err, spooler.ErrUnauthorized)
	})

	t.Run("server error", func(t *testing.T) {
		err := client.GetFile(ctx, "/admin/conf/broken", &bytes.Buffer{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, spooler.ErrNotFound)
	})
}

func TestGetPPD(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/printers/office.ppd", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("*PPD-Adobe: \"4.3\"\n"))
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	path, err := client.GetPPD(ctx, "office")
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "*PPD-Adobe: \"4.3\"\n", string(data))

	_, err = client.GetPPD(ctx, "raw")
	assert.ErrorIs(t, err, spooler.ErrNotFound)
}

func TestMapError(t *testing.T) {
	client := NewClient(nil, zap.NewNop())

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"ipp not found", ipp.IPPError{Status: statusNotFound, Message: "no such printer"}, spooler.ErrNotFound},
		{"ipp not authorized", ipp.IPPError{Status: statusNotAuthorized}, spooler.ErrUnauthorized},
		{"http unauthorized", ipp.HTTPError{Code: http.StatusUnauthorized}, spooler.ErrUnauthorized},
		{"http not found", ipp.HTTPError{Code: http.StatusNotFound}, spooler.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, client.mapError("op", tt.err), tt.want)
		})
	}

	plain := ipp.IPPError{Status: 0x0500}
	err := client.mapError("op", plain)
	assert.NotErrorIs(t, err, spooler.ErrNotFound)
	assert.NotErrorIs(t, err, spooler.ErrUnauthorized)
}

func TestConvertAttributes(t *testing.T) {
	attrs := ipp.Attributes{
		"printer-name":  {{Name: "printer-name", Value: "office"}},
		"member-names":  {{Value: "a"}, {Value: "b"}},
		"printer-state": {{Value: int32(3)}},
	}

	got := convertAttributes(attrs)
	assert.Equal(t, "office", got["printer-name"])
	assert.Equal(t, []any{"a", "b"}, got["member-names"])

	state, ok := got.Int("printer-state")
	assert.True(t, ok)
	assert.Equal(t, 3, state)
}

func TestPrinterURIEscapesName(t *testing.T) {
	client := NewClient(&Config{Host: "localhost", Port: 631}, zap.NewNop())
	assert.Equal(t, "ipp://localhost:631/printers/front%20desk", client.printerURI("front desk"))
	assert.Equal(t, "http://localhost:631/admin/", client.httpURL("/admin/"))
	assert.Equal(t, []string{"all"}, usersOrAll(nil))
	assert.Equal(t, []string{"none"}, usersOrNone([]string{}))
}
