package websocketPkg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"DentalPlanner/internal/entity"
	"DentalPlanner/pkg/detector"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// detectorClient talks to a model sidecar over one persistent websocket.
// Round trips are serialized: a frame is written and its reply read while
// holding mu.
type detectorClient struct {
	url          string
	log          *logrus.Logger
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	closed       chan struct{}
	closeOnce    sync.Once
}

func New(log *logrus.Logger) (detector.IDetector, error) {
	url := os.Getenv("DETECTOR_WS_URL")
	if url == "" {
		return nil, errors.New("DETECTOR_WS_URL is required for the websocket detector")
	}
	return NewDetectorClient(url, log), nil
}

func NewDetectorClient(url string, log *logrus.Logger) detector.IDetector {
	client := &detectorClient{
		url:          url,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  30 * time.Second,
		writeTimeout: 5 * time.Second,
		closed:       make(chan struct{}),
	}

	go client.connectInBackground()

	return client
}

func (c *detectorClient) connectInBackground() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return
	}

	if err := c.reconnectLocked(); err != nil {
		c.log.Warnf("Initial connection to detector at %s failed: %v. Will retry on demand.", c.url, err)
		return
	}
	c.log.Infof("Connected to detector at %s", c.url)
}

func (c *detectorClient) reconnectLocked() error {
	select {
	case <-c.closed:
		return errors.New("detector client closed")
	default:
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Warnf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *detectorClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Ping to detector failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

func (c *detectorClient) Detect(ctx context.Context, frame []byte) ([]entity.Detection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.reconnectLocked(); err != nil {
			return nil, fmt.Errorf("%w: %v", detector.ErrUnavailable, err)
		}
	}
	conn := c.conn

	if err := conn.SetWriteDeadline(deadline(ctx, c.writeTimeout)); err != nil {
		return nil, c.dropLocked(fmt.Errorf("error setting write deadline: %w", err))
	}

	c.log.Debugf("Sending frame of %d bytes to detector", len(frame))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return nil, c.dropLocked(fmt.Errorf("error sending frame: %w", err))
	}

	if err := conn.SetReadDeadline(deadline(ctx, c.readTimeout)); err != nil {
		return nil, c.dropLocked(fmt.Errorf("error setting read deadline: %w", err))
	}

	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, c.dropLocked(fmt.Errorf("error reading detector reply: %w", err))
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	var result detector.Response
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling detector reply: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", detector.ErrUnavailable, result.Error)
	}

	c.log.Debugf("Detector returned %d detections", len(result.Detections))

	return result.Detections, nil
}

// dropLocked discards a broken connection so the next call redials.
func (c *detectorClient) dropLocked(err error) error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return fmt.Errorf("%w: %v", detector.ErrUnavailable, err)
}

func (c *detectorClient) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}
