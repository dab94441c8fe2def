// Command starbot plays the star hunt against a running server: it logs in,
// opens the main screen, finds both stars over the websocket and claims the
// reward.
package main

import (
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"
)

type Message struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

var boardIDPattern = regexp.MustCompile(`data-board="([0-9a-f-]{36})"`)

func main() {
	app := &cli.App{
		Name:  "starbot",
		Usage: "find both stars and claim the coupon",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "http://localhost:8080",
				Usage: "server base url",
			},
		},
		Action: func(c *cli.Context) error {
			play(c.String("url"))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func play(base string) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatal("cookie jar:", err)
	}
	client := &http.Client{Jar: jar}

	resp, err := client.PostForm(base+"/login", url.Values{
		"username": {"starbot"},
		"password": {"starbot"},
	})
	if err != nil {
		log.Fatal("login:", err)
	}
	resp.Body.Close()

	resp, err = client.Get(base + "/main")
	if err != nil {
		log.Fatal("main:", err)
	}
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		log.Fatal("main:", err)
	}

	m := boardIDPattern.FindSubmatch(page)
	if m == nil {
		log.Fatal("board id not found on main page; login rejected?")
	}
	boardID := string(m[1])

	wsURL := "ws" + strings.TrimPrefix(base, "http") + "/api/v1/ws/minigame/" + boardID
	dialer := &websocket.Dialer{Jar: jar, HandshakeTimeout: websocket.DefaultDialer.HandshakeTimeout}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	script := []Message{
		{Type: "board_state"},
		{Type: "star_found", Payload: map[string]any{"star_id": 1}},
		{Type: "star_found", Payload: map[string]any{"star_id": 2}},
		{Type: "claim"},
	}

	for _, message := range script {
		out, err := json.Marshal(message)
		if err != nil {
			log.Fatal("json marshal error:", err)
		}
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			log.Fatal("write error:", err)
		}
		log.Printf("Sent: %s", out)

		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Fatal("read error:", err)
		}
		log.Printf("Received:\n%s\n", p)
	}
}
