package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/websocket"

	"github.com/robotalks/trainctl/pkg/l1"
	"github.com/robotalks/trainctl/pkg/l1/comm"
)

// Connector implements l1.Connector by dialing a Registrar.
type Connector struct {
	Client *http.Client

	host string
}

// NewConnector creates a Connector from ws://host:port.
func NewConnector(registryURL string) (*Connector, error) {
	u, err := url.Parse(registryURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("host required in %q", registryURL)
	}
	return &Connector{Client: http.DefaultClient, host: u.Host}, nil
}

func (c *Connector) meta(ctx context.Context) (*Meta, error) {
	req, err := http.NewRequest(http.MethodGet, "http://"+c.host+MetaPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meta: %s", resp.Status)
	}
	var m Meta
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Discover implements Connector.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	m, err := c.meta(ctx)
	if err != nil {
		return nil, err
	}
	return []l1.ControllerInfo{{Ref: l1.ControllerRef{Type: m.Type, ID: m.ID}, Meta: m.Meta}}, nil
}

// Connect implements Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	m, err := c.meta(ctx)
	if err != nil {
		return nil, err
	}
	if m.Type != ref.Type || m.ID != ref.ID {
		return nil, fmt.Errorf("controller %s not found at %s", ref.Name(), c.host)
	}
	ws, err := websocket.Dial("ws://"+c.host+m.Path, "", "http://"+c.host+"/")
	if err != nil {
		return nil, err
	}
	conn := &ControllerConn{Conn: ws}
	conn.Init(New(ws))
	return conn, nil
}

// ControllerConn implements ControllerConn over a websocket.
type ControllerConn struct {
	comm.ControllerConn
	Conn *websocket.Conn
}
