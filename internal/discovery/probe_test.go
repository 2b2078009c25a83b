package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/muurk/beamctl/internal/vendors"
)

func TestFingerprintIdentifiesVendors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
		found   bool
	}{
		{
			name: "christie control page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/html/remote.html" {
					w.WriteHeader(http.StatusOK)
					return
				}
				w.WriteHeader(http.StatusNotFound)
			},
			want:  vendors.ChristieID,
			found: true,
		},
		{
			name: "epson control page behind auth",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/cgi-bin/webconf" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				w.WriteHeader(http.StatusNotFound)
			},
			want:  vendors.EpsonID,
			found: true,
		},
		{
			name: "web server with neither page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			address := strings.TrimPrefix(srv.URL, "http://")

			scanner := NewScanner(vendors.Registry())
			got, found := scanner.Fingerprint(context.Background(), address)
			if got != tt.want || found != tt.found {
				t.Errorf("Fingerprint() = (%q, %v), want (%q, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}

func TestFingerprintSendsVendorHeaders(t *testing.T) {
	var gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cgi-bin/webconf" {
			gotReferer = r.Header.Get("Referer")
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	address := strings.TrimPrefix(srv.URL, "http://")

	scanner := NewScanner(vendors.Registry())
	if _, found := scanner.Fingerprint(context.Background(), address); !found {
		t.Fatal("Fingerprint() found nothing")
	}
	want := "http://" + address + "/cgi-bin/webconf"
	if gotReferer != want {
		t.Errorf("Referer = %q, want %q", gotReferer, want)
	}
}

func TestFingerprintUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	address := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	scanner := NewScanner(vendors.Registry())
	if _, found := scanner.Fingerprint(context.Background(), address); found {
		t.Error("Fingerprint() matched a dead host")
	}
}

func TestSubnetPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"192.168.0.0/24", "192.168.0", true},
		{"10.1.2.0/24", "10.1.2", true},
		{"192.168.0", "192.168.0", true},
		{"", "", false},
		{"not-a-subnet", "", false},
	}
	for _, tt := range tests {
		got, ok := subnetPrefix(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("subnetPrefix(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExpandSubnet(t *testing.T) {
	addresses := expandSubnet("192.168.0")
	if len(addresses) != 254 {
		t.Fatalf("expandSubnet() returned %d addresses, want 254", len(addresses))
	}
	if addresses[0] != "192.168.0.1" || addresses[253] != "192.168.0.254" {
		t.Errorf("expandSubnet() range = %s .. %s", addresses[0], addresses[253])
	}
}

func TestHostPattern(t *testing.T) {
	matching := []string{
		"EPSON1A2B3C.local.",
		"christie-4k25.local",
		"projector-hall.local.",
		"PJ-lab2.local",
	}
	for _, hostname := range matching {
		if !hostPattern.MatchString(hostname) {
			t.Errorf("hostPattern should match %q", hostname)
		}
	}

	nonMatching := []string{
		"printer-2f.local.",
		"epson", // no .local suffix
		"myepson.local",
		"nas.local.",
	}
	for _, hostname := range nonMatching {
		if hostPattern.MatchString(hostname) {
			t.Errorf("hostPattern should not match %q", hostname)
		}
	}
}
