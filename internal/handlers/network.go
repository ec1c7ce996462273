package handlers

import (
	"fmt"
	"net"
	"net/http"
)

// NetworkInfoHandler tells a device which network the server sits on,
// so ESP32 firmware can be pointed at a static address in the same
// subnet.
type NetworkInfoHandler struct {
	serverIP string
}

// NewNetworkInfoHandler creates a network-info handler.
func NewNetworkInfoHandler(serverIP string) *NetworkInfoHandler {
	return &NetworkInfoHandler{serverIP: serverIP}
}

// NetworkInfoResponse describes the server's network placement.
type NetworkInfoResponse struct {
	ServerIP       string `json:"server_ip"`
	Subnet         string `json:"subnet"`
	SuggestedESPIP string `json:"suggested_esp_ip"`
}

func (h *NetworkInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subnet, suggested := subnetFor(h.serverIP)
	writeJSON(w, http.StatusOK, NetworkInfoResponse{
		ServerIP:       h.serverIP,
		Subnet:         subnet,
		SuggestedESPIP: suggested,
	})
}

// LocalIP resolves the server's outbound IPv4 address. The dial never
// sends anything; it only forces the kernel to pick a source address.
func LocalIP() string {
	conn, err := net.Dial("udp", "10.255.255.255:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// subnetFor derives the /24 subnet of ip and a suggested static device
// address inside it.
func subnetFor(ip string) (subnet, suggested string) {
	parsed := net.ParseIP(ip)
	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0/24", v4[0], v4[1], v4[2]),
			fmt.Sprintf("%d.%d.%d.100", v4[0], v4[1], v4[2])
	}
	return "127.0.0.0/24", "127.0.0.100"
}
