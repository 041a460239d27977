// Package youtube fetches the comment threads of a video through the
// YouTube Data API. It is the pipeline's only data source; if this fails,
// the whole run fails.
package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-triage/types"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

const pageSize = 100

// Source yields the ordered comments of a video.
type Source interface {
	FetchComments(ctx context.Context, videoURL string, max int) ([]types.Comment, error)
}

// APISource is the Data API v3 implementation of Source.
type APISource struct {
	svc *youtubeapi.Service
}

// NewAPISource builds the YouTube service client. The API key comes from
// config; a missing key is a configuration error, not a source error.
func NewAPISource(ctx context.Context, apiKey string) (*APISource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is not set")
	}
	svc, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating YouTube client: %w", err)
	}
	return &APISource{svc: svc}, nil
}

// FetchComments pages through the video's top-level comments, newest first,
// up to max (0 means no limit). Network and API failures surface as
// ErrSourceUnavailable.
func (s *APISource) FetchComments(ctx context.Context, videoURL string, max int) ([]types.Comment, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSourceUnavailable, err)
	}

	var comments []types.Comment
	pageToken := ""
	for {
		call := s.svc.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			Order("time").
			TextFormat("plainText").
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: fetching comments for %s: %v", types.ErrSourceUnavailable, videoID, err)
		}

		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
				continue
			}
			top := item.Snippet.TopLevelComment
			snippet := top.Snippet

			ts, _ := time.Parse(time.RFC3339, snippet.PublishedAt)
			id := top.Id
			if id == "" {
				id = fmt.Sprintf("%s-%d", videoID, len(comments))
			}

			comments = append(comments, types.Comment{
				ID:        id,
				Author:    snippet.AuthorDisplayName,
				Text:      snippet.TextDisplay,
				Timestamp: ts,
				LikeCount: snippet.LikeCount,
			})
			if max > 0 && len(comments) >= max {
				return comments, nil
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return comments, nil
		}
	}
}

// ExtractVideoID pulls the video id out of the usual YouTube URL shapes:
// watch?v=, youtu.be/, /shorts/, /embed/. A bare 11-character id also
// passes through.
func ExtractVideoID(videoURL string) (string, error) {
	trimmed := strings.TrimSpace(videoURL)
	if trimmed == "" {
		return "", fmt.Errorf("empty video URL")
	}

	// allow passing the id directly
	if !strings.ContainsAny(trimmed, "/?.") && len(trimmed) == 11 {
		return trimmed, nil
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parsing video URL %q: %w", videoURL, err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch {
	case host == "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id != "" {
			return id, nil
		}
	case strings.HasSuffix(host, "youtube.com"):
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				if id != "" {
					return id, nil
				}
			}
		}
	}
	return "", fmt.Errorf("could not find a video id in %q", videoURL)
}
