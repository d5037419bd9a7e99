package middleware

import (
	"net"
	"net/http"
	"strings"
)

// TrustedProxies decides which socket peers may speak for the client
// through X-Forwarded-For. With no entries the header is ignored.
type TrustedProxies struct {
	nets []*net.IPNet
}

// NewTrustedProxies accepts bare IPs and CIDR ranges. Unparseable entries
// are skipped.
func NewTrustedProxies(entries []string) *TrustedProxies {
	tp := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				continue
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			tp.nets = append(tp.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		if _, ipNet, err := net.ParseCIDR(entry); err == nil {
			tp.nets = append(tp.nets, ipNet)
		}
	}
	return tp
}

func (tp *TrustedProxies) trusts(raw string) bool {
	if tp == nil {
		return false
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return false
	}
	for _, n := range tp.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the socket peer unless that peer is a trusted proxy.
// Behind trusted proxies X-Forwarded-For is walked right to left and the
// first hop that is not itself trusted is the client.
func (tp *TrustedProxies) ClientIP(r *http.Request) string {
	peer := peerIP(r)
	if !tp.trusts(peer) {
		return peer
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return peer
	}
	hops := strings.Split(forwarded, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if net.ParseIP(hop) == nil {
			break
		}
		if !tp.trusts(hop) {
			return hop
		}
		peer = hop
	}
	return peer
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
