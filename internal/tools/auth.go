package tools

import (
	"context"

	"n8nmcp/internal/api"
	"n8nmcp/internal/n8n"
	"n8nmcp/pkg/logging"
)

// session is one authenticated tool call.
type session struct {
	userID  string
	apiKey  string
	baseURL string
}

// authenticate resolves the caller's credentials. The returned result is
// non-nil when the call must stop; no network call has been made then.
func (p *Provider) authenticate(ctx context.Context, args map[string]interface{}) (*session, *api.CallToolResult) {
	userID := stringArg(args, "user_id")
	if userID == "" {
		return nil, errorResult(MsgUserIDRequired)
	}

	if p.resolver == nil {
		return nil, errorResult(MsgAPIKeyNotFound)
	}
	creds, ok := p.resolver.Resolve(ctx, userID)
	if !ok || creds == nil || creds.AccessToken.IsEmpty() {
		logging.Debug("Tools", "No n8n credentials for user %s", logging.TruncateID(userID))
		return nil, errorResult(MsgAPIKeyNotFound)
	}

	return &session{
		userID:  userID,
		apiKey:  creds.AccessToken.Value(),
		baseURL: p.client.BaseURL(creds.APIBaseURL),
	}, nil
}

// call issues one REST call on behalf of the session.
func (p *Provider) call(ctx context.Context, s *session, req n8n.Request) n8n.Result {
	req.BaseURL = s.baseURL
	return p.client.Execute(ctx, s.apiKey, req)
}

// hostRoot is where webhook, form and run endpoints live for this session.
func (s *session) hostRoot() string {
	return n8n.HostRoot(s.baseURL)
}
