package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrNoPublicIP indicates the public address of a caller could not be determined
var ErrNoPublicIP = errors.New("public ip unavailable")

// IPResolver determines the public address recorded on a successful login
type IPResolver interface {
	PublicIP(ctx context.Context, clientIP string) (string, error)
}

var privateBlocks []*net.IPNet

func init() {
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"100.64.0.0/10",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	} {
		_, block, err := net.ParseCIDR(cidr)
		if err == nil {
			privateBlocks = append(privateBlocks, block)
		}
	}
}

// IsPrivateIP reports whether ip is loopback, link-local or in a private range
func IsPrivateIP(ip net.IP) bool {
	if ip == nil || ip.IsUnspecified() {
		return true
	}
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// HTTPIPResolver returns the client address when it is public and otherwise
// asks a plain-text lookup endpoint for the server's egress address
type HTTPIPResolver struct {
	lookupURL string
	client    *http.Client
}

// NewIPResolver creates a resolver. An empty lookupURL disables the remote lookup.
func NewIPResolver(lookupURL string, client *http.Client) *HTTPIPResolver {
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	return &HTTPIPResolver{lookupURL: lookupURL, client: client}
}

func (r *HTTPIPResolver) PublicIP(ctx context.Context, clientIP string) (string, error) {
	if ip := net.ParseIP(clientIP); ip != nil && !IsPrivateIP(ip) {
		return ip.String(), nil
	}
	if r.lookupURL == "" {
		return "", ErrNoPublicIP
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.lookupURL, nil)
	if err != nil {
		return "", fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup public ip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup public ip: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", fmt.Errorf("read lookup response: %w", err)
	}

	ip := net.ParseIP(strings.TrimSpace(string(body)))
	if ip == nil {
		return "", ErrNoPublicIP
	}
	return ip.String(), nil
}
