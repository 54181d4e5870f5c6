package chathub

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/metrics"
	"tutormatch/backend/internal/models"

	"go.uber.org/zap"
)

const deliverBuffer = 256

// MessageSender persists a relayed message and hands it back to the hub for delivery.
type MessageSender interface {
	Send(ctx context.Context, senderID, receiverID uint, content, channel string) (*models.Message, error)
}

// Broker fans deliveries out to every instance.
type Broker interface {
	PublishDelivery(ctx context.Context, d models.Delivery) error
	SubscribeDeliveries(ctx context.Context) (<-chan models.Delivery, func() error, error)
}

type reply struct {
	client Client
	frame  models.OutboundFrame
}

// Hub owns the registry of live subscriptions: user id -> conn id -> client.
// The registry is mutated only by the Run goroutine.
type Hub struct {
	clients map[uint]map[string]Client
	mu      sync.RWMutex // lets IsOnline read the registry from other goroutines

	RegisterCh   chan Client
	UnregisterCh chan Client
	deliverCh    chan models.Delivery
	replyCh      chan reply
	done         chan struct{}

	broker     Broker
	brokerDown atomic.Bool // set once the subscription is lost; publishing stops
	sender     MessageSender
	logger     *zap.Logger
}

// NewHub creates a hub. broker may be nil for in-process delivery only.
func NewHub(broker Broker, logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[uint]map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		deliverCh:    make(chan models.Delivery, deliverBuffer),
		replyCh:      make(chan reply, deliverBuffer),
		done:         make(chan struct{}),
		broker:       broker,
		logger:       logger.Named("chathub"),
	}
}

// SetMessageSender wires the service that persists inbound frames.
// The message service itself depends on the hub, so this is set after construction.
func (h *Hub) SetMessageSender(sender MessageSender) {
	h.sender = sender
}

// Run is the hub's event loop. It returns when ctx is cancelled and closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	remote := h.startPubSubListener(ctx)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.RegisterCh:
			h.add(c)

		case c := <-h.UnregisterCh:
			h.remove(c)

		case d := <-h.deliverCh:
			h.dispatch(d)

		case d, ok := <-remote:
			if !ok {
				// Redis пропав: далі лише локальна доставка
				h.logger.Warn("redis subscription closed, falling back to local delivery")
				remote = nil
				h.brokerDown.Store(true)
				continue
			}
			h.dispatch(d)

		case r := <-h.replyCh:
			h.sendTo(r.client, r.frame)
		}
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(c Client) bool {
	select {
	case h.RegisterCh <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

// IsOnline reports whether the user has at least one live subscription on this instance.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Deliver pushes a stored message to the receiver's subscriptions and the sender's
// other subscriptions. The sending subscription is taken from ctx, see WithOrigin.
func (h *Hub) Deliver(ctx context.Context, msg models.Message) {
	d := models.Delivery{Message: msg, OriginConnID: originFrom(ctx)}

	if h.broker != nil && !h.brokerDown.Load() {
		err := h.broker.PublishDelivery(ctx, d)
		if err == nil {
			return
		}
		h.logger.Warn("publish failed, delivering locally", zap.Uint("message_id", msg.ID), zap.Error(err))
	}

	select {
	case h.deliverCh <- d:
	case <-h.done:
	case <-ctx.Done():
	}
}

// HandleInbound validates a frame from c, persists it and acks the sending socket.
func (h *Hub) HandleInbound(ctx context.Context, c Client, in models.InboundFrame) {
	if in.FromUserID != 0 && in.FromUserID != c.GetUserID() {
		h.reply(c, errorFrame("sender_mismatch"))
		return
	}
	if in.ToUserID == 0 || strings.TrimSpace(in.Content) == "" {
		h.reply(c, errorFrame("missing_fields"))
		return
	}
	if h.sender == nil {
		h.reply(c, errorFrame(apperr.CodeInternal))
		return
	}

	msg, err := h.sender.Send(WithOrigin(ctx, c.GetConnID()), c.GetUserID(), in.ToUserID, in.Content, "ws")
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			h.logger.Error("failed to relay message", zap.Uint("user_id", c.GetUserID()), zap.Error(err))
		}
		h.reply(c, errorFrame(apperr.CodeOf(err)))
		return
	}
	h.reply(c, models.OutboundFrame{Type: models.FrameAck, Success: true, Message: msg})
}

func (h *Hub) reply(c Client, f models.OutboundFrame) {
	select {
	case h.replyCh <- reply{client: c, frame: f}:
	case <-h.done:
	}
}

func errorFrame(code string) models.OutboundFrame {
	return models.OutboundFrame{Type: models.FrameError, Error: code}
}

func (h *Hub) add(c Client) {
	h.mu.Lock()
	subs, ok := h.clients[c.GetUserID()]
	if !ok {
		subs = make(map[string]Client)
		h.clients[c.GetUserID()] = subs
	}
	subs[c.GetConnID()] = c
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	h.logger.Debug("client registered", zap.Uint("user_id", c.GetUserID()), zap.String("conn_id", c.GetConnID()))
}

// remove drops c from the registry and closes it. Clients that are already gone are ignored,
// so a dropped client unregistering itself later is harmless.
func (h *Hub) remove(c Client) bool {
	h.mu.Lock()
	subs, ok := h.clients[c.GetUserID()]
	if ok {
		_, ok = subs[c.GetConnID()]
	}
	if ok {
		delete(subs, c.GetConnID())
		if len(subs) == 0 {
			delete(h.clients, c.GetUserID())
		}
	}
	h.mu.Unlock()

	if !ok {
		return false
	}
	c.Close()
	metrics.WSConnections.Dec()
	return true
}

func (h *Hub) dispatch(d models.Delivery) {
	msg := d.Message
	frame := models.OutboundFrame{Type: models.FrameMessage, Message: &msg}

	for _, uid := range []uint{msg.ReceiverID, msg.SenderID} {
		for connID, c := range h.clients[uid] {
			if connID == d.OriginConnID {
				continue
			}
			h.sendTo(c, frame)
		}
	}
}

// sendTo never blocks the loop: a client whose buffer is full is dropped.
func (h *Hub) sendTo(c Client, f models.OutboundFrame) {
	if subs, ok := h.clients[c.GetUserID()]; !ok || subs[c.GetConnID()] == nil {
		return
	}
	select {
	case c.GetSendChannel() <- f:
	default:
		h.logger.Warn("client too slow, dropping", zap.Uint("user_id", c.GetUserID()), zap.String("conn_id", c.GetConnID()))
		metrics.RelayDropped.Inc()
		h.remove(c)
	}
}

func (h *Hub) closeAll() {
	var all []Client
	for _, subs := range h.clients {
		for _, c := range subs {
			all = append(all, c)
		}
	}
	for _, c := range all {
		h.remove(c)
	}
}

type originKey struct{}

// WithOrigin marks ctx with the subscription a message was sent from.
func WithOrigin(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, originKey{}, connID)
}

func originFrom(ctx context.Context) string {
	id, _ := ctx.Value(originKey{}).(string)
	return id
}
