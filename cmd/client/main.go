// Demo client for the collaboration service. It provisions two users and a
// chat room, posts a message, flips its read receipt, then polls the
// notification endpoint the way a real client would: hand in the last
// observed watermark, follow the links that come back, repeat.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"collab-chat/api"
)

type Config struct {
	ServerURL    string        `env:"SERVER_URL,default=http://localhost:8080"`
	PollInterval time.Duration `env:"POLL_INTERVAL,default=2s"`
	PollRounds   int           `env:"POLL_ROUNDS,default=5"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	client := &http.Client{Timeout: 10 * time.Second}

	// 1. Provision the two parties.
	var alice, bob api.UserResponse
	if err := postJSON(client, config.ServerURL+"/users",
		api.CreateUserRequest{FirstName: "Alice", LastName: "Smith", Nickname: "Al"}, &alice); err != nil {
		return err
	}
	if err := postJSON(client, config.ServerURL+"/users",
		api.CreateUserRequest{FirstName: "Bob", LastName: "Jones", Nickname: "Bobby"}, &bob); err != nil {
		return err
	}
	color.Green.Printf("Created users %s and %s\n", alice.UserID, bob.UserID)

	// 2. Open a room between them.
	var room api.ChatRoomResponse
	if err := postJSON(client, config.ServerURL+"/chatrooms", api.CreateChatRoomRequest{
		Topic:             "demo conversation",
		CreatorUserID:     alice.UserID,
		ParticipantUserID: bob.UserID,
	}, &room); err != nil {
		return err
	}
	color.Green.Printf("Created chat room %s (topic %q)\n", room.ChatRoomID, room.Topic)

	// 3. Post a message and mark it read.
	var message api.ChatMessageResponse
	messagesURL := fmt.Sprintf("%s/chatrooms/%s/chatmessages", config.ServerURL, room.ChatRoomID)
	if err := postJSON(client, messagesURL,
		api.PostChatMessageRequest{FromParticipantID: alice.UserID, Message: "hi Bob"}, &message); err != nil {
		return err
	}
	if err := putJSON(client, messagesURL+"/"+message.ChatMessageID,
		api.ModifyChatMessageRequest{ReadReceipt: true}, &message); err != nil {
		return err
	}
	color.Green.Printf("Posted message %s (read receipt: %v)\n", message.ChatMessageID, message.ReadReceipt)

	// 4. Poll. Every other round asks the server to simulate the remote
	// party so there is something to discover.
	watermark := int64(0)
	for round := 0; round < config.PollRounds; round++ {
		if round%2 == 1 {
			simulateURL := fmt.Sprintf("%s/notifications?test=true&num=2&chatroomID=%s",
				config.ServerURL, room.ChatRoomID)
			var ignored []api.NotificationResponse
			if err := getJSON(client, simulateURL, &ignored); err != nil {
				return err
			}
			color.Yellow.Println("Asked the server to simulate remote activity")
		}

		pollURL := fmt.Sprintf("%s/notifications?lastTimestamp=%d", config.ServerURL, watermark)
		var notifications []api.NotificationResponse
		if err := getJSON(client, pollURL, &notifications); err != nil {
			return err
		}

		color.Cyan.Printf("Poll %d: %d change(s) since watermark %d\n", round+1, len(notifications), watermark)
		renderNotifications(notifications)
		for _, n := range notifications {
			if n.Timestamp > watermark {
				watermark = n.Timestamp
			}
		}

		time.Sleep(config.PollInterval)
	}
	return nil
}

func renderNotifications(notifications []api.NotificationResponse) {
	if len(notifications) == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Timestamp", "Parent", "Sub-resource", "Link"})
	for _, n := range notifications {
		link := ""
		if len(n.Links) > 0 {
			link = n.Links[0]
		}
		table.Append([]string{
			time.UnixMilli(n.Timestamp).UTC().Format(time.RFC3339),
			n.ParentResourceID,
			n.SubResourceID,
			link,
		})
	}
	table.Render()
}

func postJSON(client *http.Client, url string, body, out any) error {
	return sendJSON(client, http.MethodPost, url, body, out)
}

func putJSON(client *http.Client, url string, body, out any) error {
	return sendJSON(client, http.MethodPut, url, body, out)
}

func sendJSON(client *http.Client, method, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(client, req, out)
}

func getJSON(client *http.Client, url string, out any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return do(client, req, out)
}

func do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
