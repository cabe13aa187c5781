// internal/handler/websocket_handler.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"printer-service/internal/service"
	"printer-service/internal/utils"
)

const (
	queryTimeout = 30 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 54 * time.Second
	writeWait    = 10 * time.Second
)

// WebSocketHandler answers printer and device queries over a WebSocket
type WebSocketHandler struct {
	upgrader         websocket.Upgrader
	connections      *ConnectionManager
	printerService   *service.PrinterService
	deviceService    *service.DeviceService
	diagnosisService *service.DiagnosisService
	logger           *utils.ServiceLogger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	printerService *service.PrinterService,
	deviceService *service.DeviceService,
	diagnosisService *service.DiagnosisService,
	logger *zap.Logger,
) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:         upgrader,
		connections:      NewConnectionManager(),
		printerService:   printerService,
		deviceService:    deviceService,
		diagnosisService: diagnosisService,
		logger:           utils.NewServiceLogger(logger, "websocket-handler"),
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/ws", h.HandleConnection)
}

// HandleConnection upgrades the request and serves queries until the
// client goes away
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 64),
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("remote_addr", client.RemoteAddr),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// Shutdown closes every open connection
func (h *WebSocketHandler) Shutdown() {
	h.logger.Info("Closing WebSocket clients", zap.Int("clients", h.connections.Count()))
	h.connections.CloseAll()
}

// handleClientRead reads queries and answers them in order
func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
	}()

	client.Connection.SetReadDeadline(time.Now().Add(pongWait))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			break
		}

		var request WebSocketRequest
		if err := json.Unmarshal(messageBytes, &request); err != nil {
			h.sendMessage(client, &WebSocketMessage{
				Type:      MessageError,
				Error:     fmt.Sprintf("invalid message: %v", err),
				Timestamp: time.Now(),
			})
			continue
		}

		h.sendMessage(client, h.answer(&request))
	}
}

// handleClientWrite drains the send queue and keeps the connection alive
func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// answer runs one query. The reply echoes the request id, or carries a
// fresh one when the client sent none.
func (h *WebSocketHandler) answer(request *WebSocketRequest) *WebSocketMessage {
	requestID := request.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	ctx = utils.ContextWithRequestID(ctx, requestID)

	response := &WebSocketMessage{
		Type:      request.Type,
		RequestID: requestID,
	}

	var err error
	switch request.Type {
	case MessageListPrinters:
		response.Data, err = h.printerService.ListPrinters(ctx)
	case MessageListDevices:
		response.Data, err = h.deviceService.GetDevices(ctx)
	case MessageDiagnose:
		if request.Printer == "" {
			err = fmt.Errorf("printer is required")
			break
		}
		response.Data, err = h.diagnosisService.DiagnosePrinter(ctx, request.Printer)
	case MessagePing:
		response.Type = MessagePong
	default:
		response.Type = MessageError
		err = fmt.Errorf("unknown message type: %s", request.Type)
	}

	if err != nil {
		response.Data = nil
		response.Error = err.Error()
		h.logger.Warn("WebSocket query failed",
			zap.String("type", request.Type),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
	response.Timestamp = time.Now()
	return response
}

// sendMessage queues a message for a client
func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}
