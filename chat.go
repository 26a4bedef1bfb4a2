package main

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"ecosaarthi/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	chatHistoryLimit = 50
	chatWriteWait    = 10 * time.Second
	maxChatBytes     = 2048
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin front end plus local dev; the credential check is what
	// actually gates the handshake.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatHub fans every persisted message out to all connected clients. One
// goroutine owns the client set; register/unregister/broadcast all go through
// channels so no lock is held during sends.
type ChatHub struct {
	register   chan *chatClient
	unregister chan *chatClient
	broadcast  chan models.ChatMessage
	clients    map[*chatClient]struct{}
}

func newChatHub() *ChatHub {
	return &ChatHub{
		register:   make(chan *chatClient),
		unregister: make(chan *chatClient),
		broadcast:  make(chan models.ChatMessage, 16),
		clients:    make(map[*chatClient]struct{}),
	}
}

func (h *ChatHub) run() {
	for {
		select {
		case cl := <-h.register:
			h.clients[cl] = struct{}{}
		case cl := <-h.unregister:
			if _, ok := h.clients[cl]; ok {
				delete(h.clients, cl)
				cl.closeSend()
			}
		case msg := <-h.broadcast:
			for cl := range h.clients {
				select {
				case cl.send <- msg:
				default:
					// slow consumer: drop the connection, not the hub
					delete(h.clients, cl)
					cl.closeSend()
				}
			}
		}
	}
}

type chatClient struct {
	hub      *ChatHub
	conn     *websocket.Conn
	send     chan models.ChatMessage
	userID   uint
	userName string

	closeOnce sync.Once
}

func (cl *chatClient) closeSend() {
	cl.closeOnce.Do(func() { close(cl.send) })
}

// chatHandler authenticates the handshake, replays recent history and then
// hands the connection to the read/write pumps.
func chatHandler(c *gin.Context) {
	claims, err := verifyToken(credentialFromRequest(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	cl := &chatClient{
		hub:      hub,
		conn:     conn,
		send:     make(chan models.ChatMessage, chatHistoryLimit),
		userID:   user.ID,
		userName: strings.TrimSpace(user.FirstName + " " + user.LastName),
	}

	// History goes straight onto the send queue before the client is
	// registered, so replay always precedes live traffic.
	history, err := recentChatMessages(chatHistoryLimit)
	if err != nil {
		logger.Warnw("chat history load failed", "err", err)
	}
	for _, m := range history {
		cl.send <- m
	}

	hub.register <- cl
	go cl.writePump()
	go cl.readPump()
}

type inboundChat struct {
	Content string `json:"content"`
}

// readPump persists each inbound message and hands it to the hub. Returning
// unregisters the client; the connection close is the only cleanup.
func (cl *chatClient) readPump() {
	defer func() {
		cl.hub.unregister <- cl
		cl.conn.Close()
	}()
	cl.conn.SetReadLimit(maxChatBytes)
	for {
		var in inboundChat
		if err := cl.conn.ReadJSON(&in); err != nil {
			return
		}
		content := strings.TrimSpace(in.Content)
		if content == "" {
			continue
		}
		msg := models.ChatMessage{
			AuthorID:   cl.userID,
			AuthorName: cl.userName,
			Content:    content,
		}
		if err := db.Create(&msg).Error; err != nil {
			logger.Warnw("chat message persist failed", "err", err)
			continue
		}
		// Broadcast only after the write sticks, so every client sees
		// exactly what history will replay.
		cl.hub.broadcast <- msg
	}
}

func (cl *chatClient) writePump() {
	defer cl.conn.Close()
	for msg := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
		if err := cl.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
