package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ochairo/cauldron/internal/domain/entities"
	"github.com/ochairo/cauldron/internal/logging"
)

// DefaultAURURL is the default RPC endpoint of the community package
// repository.
const DefaultAURURL = "https://aur.archlinux.org/rpc/"

// AURGateway implements the remote metadata collaborator against the AUR RPC
// v5 interface using the standard HTTP client. Requests are not retried: a
// transport failure is fatal to the run by design.
type AURGateway struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewAURGateway creates a metadata gateway for the given RPC endpoint.
// An empty endpoint selects the default.
func NewAURGateway(baseURL string) *AURGateway {
	if baseURL == "" {
		baseURL = DefaultAURURL
	}
	return &AURGateway{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: "cauldron/1.0",
	}
}

// rpcResponse is the wire shape of an RPC v5 info reply.
type rpcResponse struct {
	Type    string       `json:"type"`
	Error   string       `json:"error"`
	Results []rpcPackage `json:"results"`
}

type rpcPackage struct {
	Name        string   `json:"Name"`
	PackageBase string   `json:"PackageBase"`
	Version     string   `json:"Version"`
	Depends     []string `json:"Depends"`
	MakeDepends []string `json:"MakeDepends"`
}

// Info queries metadata for the given names. Names unknown upstream are
// simply absent from the result map.
func (g *AURGateway) Info(ctx context.Context, names []string) (map[string]entities.PackageInfo, error) {
	logger := logging.GetLogger("aur")
	logger.Debug().Strs("names", names).Msg("querying package metadata")

	query := url.Values{}
	query.Set("v", "5")
	query.Set("type", "info")
	for _, name := range names {
		query.Add("arg[]", name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata endpoint returned status %d", resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode metadata response: %w", err)
	}
	if decoded.Type == "error" {
		return nil, fmt.Errorf("metadata endpoint reported error: %s", decoded.Error)
	}

	infos := make(map[string]entities.PackageInfo, len(decoded.Results))
	for _, result := range decoded.Results {
		infos[result.Name] = entities.PackageInfo{
			Name:        result.Name,
			PackageBase: result.PackageBase,
			Version:     result.Version,
			Depends:     result.Depends,
			MakeDepends: result.MakeDepends,
		}
	}
	return infos, nil
}
