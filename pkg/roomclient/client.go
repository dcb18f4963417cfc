// Package roomclient wraps the telephony provider's room-service API down
// to the one operation the control plane needs (C9): deleting a room to
// hang up a call. Modelled as a narrow interface per SPEC_FULL.md §6
// ("Provider room-service client: must provide delete_room(room_name)").
package roomclient

import (
	"context"
	"net/http"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/twitchtv/twirp"
)

// RoomService is the narrow interface the control API's hangup endpoint
// depends on.
type RoomService interface {
	DeleteRoom(ctx context.Context, room string) error
}

// LiveKitClient implements RoomService against a LiveKit server's
// RoomServiceClient, deleting a room to disconnect every participant —
// the control plane's concrete hangup mechanism.
type LiveKitClient struct {
	rs *lksdk.RoomServiceClient
}

// NewLiveKitClient builds a client for the LiveKit server at host, signing
// requests with apiKey/apiSecret. httpClient is the bounded,
// rate-limited pool (pkg/httpclient, C10) every outbound call to the
// room-service API is issued through; a nil httpClient falls back to
// the twirp-generated client's own default.
func NewLiveKitClient(host, apiKey, apiSecret string, httpClient *http.Client) *LiveKitClient {
	var opts []twirp.ClientOption
	if httpClient != nil {
		opts = append(opts, twirp.WithClient(httpClient))
	}
	return &LiveKitClient{rs: lksdk.NewRoomServiceClient(host, apiKey, apiSecret, opts...)}
}

// DeleteRoom deletes room on the LiveKit server.
func (c *LiveKitClient) DeleteRoom(ctx context.Context, room string) error {
	_, err := c.rs.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: room})
	return err
}
