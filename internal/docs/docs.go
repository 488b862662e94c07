// Package docs embeds the operator guides printed by `livewatch docs`.
package docs

import (
	"bufio"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var guides embed.FS

// Guide is one embedded topic. Title is the guide's first heading.
type Guide struct {
	Topic string `json:"topic"`
	Title string `json:"title"`
}

// Index lists every guide sorted by topic.
func Index() []Guide {
	names, _ := fs.Glob(guides, "content/*.md")
	out := make([]Guide, 0, len(names))
	for _, name := range names {
		topic := strings.TrimSuffix(path.Base(name), ".md")
		body, err := guides.ReadFile(name)
		if err != nil {
			continue
		}
		out = append(out, Guide{Topic: topic, Title: heading(string(body), topic)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

func Topics() []string {
	idx := Index()
	topics := make([]string, len(idx))
	for i, g := range idx {
		topics[i] = g.Topic
	}
	return topics
}

// Get returns the markdown for topic, matched case-insensitively. Paths are never
// accepted as topics.
func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" || strings.ContainsAny(topic, `/\.`) {
		return "", false
	}
	b, err := guides.ReadFile("content/" + topic + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

func heading(body, fallback string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return fallback
}
