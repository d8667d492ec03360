// Package video turns the share links stored on video_link contents into
// player embed URLs.
package video

import (
	"net/url"
	"strings"
)

const (
	PlatformYouTube = "youtube"
	PlatformVimeo   = "vimeo"
	PlatformUnknown = "unknown"
)

// EmbedURL returns the embeddable player URL for link. Links from hosts it
// does not recognise come back unchanged; an empty link yields "".
func EmbedURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if strings.Contains(link, "youtube.com/watch?v=") {
		if id := youTubeWatchID(link); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	}
	if strings.Contains(link, "youtu.be/") {
		if id := lastSegment(link); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	}
	if strings.Contains(link, "vimeo.com/") {
		if id := lastSegment(link); id != "" {
			return "https://player.vimeo.com/video/" + id
		}
	}
	return link
}

// DetectPlatform names the video host of link, or PlatformUnknown.
func DetectPlatform(link string) string {
	link = strings.TrimSpace(link)
	switch {
	case link == "":
		return ""
	case strings.Contains(link, "youtube.com"), strings.Contains(link, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(link, "vimeo.com"):
		return PlatformVimeo
	default:
		return PlatformUnknown
	}
}

func youTubeWatchID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}

// lastSegment is the final path segment with any query string cut off.
func lastSegment(link string) string {
	seg := link[strings.LastIndex(link, "/")+1:]
	if i := strings.IndexByte(seg, '?'); i >= 0 {
		seg = seg[:i]
	}
	return seg
}
