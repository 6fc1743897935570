package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/seventyfive/internal/config"
	"github.com/jgoulah/seventyfive/internal/stats"
	"github.com/jgoulah/seventyfive/pkg/models"
)

// State is the progress snapshot sent to Home Assistant
type State struct {
	Date          string `json:"date"`
	PlanStart     string `json:"plan_start"`
	PlanEnd       string `json:"plan_end"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	PerfectDays   int    `json:"perfect_days"`
	Percent       int    `json:"percent"`
	TodayTasks    int    `json:"today_tasks"`
	TodayComplete bool   `json:"today_complete"`
}

// BuildState summarizes plan relative to today
func BuildState(plan *models.Plan, today time.Time) State {
	summary := stats.Summarize(plan.Days, today)
	todayISO := models.FormatDate(today)
	st := State{
		Date:          todayISO,
		PlanStart:     plan.Config.StartISO,
		PlanEnd:       plan.Config.EndISO(),
		CurrentStreak: summary.Streaks.Current,
		LongestStreak: summary.Streaks.Longest,
		PerfectDays:   summary.PerfectDays,
		Percent:       summary.Percent,
	}
	if i := plan.IndexOf(todayISO); i >= 0 {
		st.TodayTasks = models.CompletedTaskCount(plan.Days[i])
		st.TodayComplete = models.IsPerfectDay(plan.Days[i])
	}
	return st
}

// Publisher handles publishing to Home Assistant
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, topicPrefix string, haCfg config.HAConfig) (*Publisher, error) {
	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	// If MQTT is enabled, set it up
	var client mqtt.Client
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		// Configure MQTT client options
		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("seventyfive-" + uuid.NewString()[:8])
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		// Create and connect client
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Enabled reports whether any destination is configured
func (p *Publisher) Enabled() bool {
	return p.client != nil || p.haConfig.Enabled
}

// StateTopic is the retained topic carrying the latest State
func (p *Publisher) StateTopic() string {
	return p.topicPrefix + "/state"
}

// PerfectDayTopic receives one message per day that becomes perfect
func (p *Publisher) PerfectDayTopic() string {
	return p.topicPrefix + "/perfect_day"
}

// Publish sends the state to every enabled destination
func (p *Publisher) Publish(st State) error {
	if !p.Enabled() {
		return fmt.Errorf("no publishing destination is enabled in config")
	}

	// Publish retained state over MQTT
	if p.client != nil {
		body, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}
		if err := p.publishMQTT(p.StateTopic(), true, body); err != nil {
			return err
		}
	}

	// Post to the Home Assistant states API
	if p.haConfig.Enabled {
		if err := p.postState(st); err != nil {
			return err
		}
	}

	return nil
}

// PublishPerfectDay announces a newly perfect day over MQTT
func (p *Publisher) PublishPerfectDay(day models.DayEntry) error {
	if p.client == nil {
		return nil
	}
	body, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	return p.publishMQTT(p.PerfectDayTopic(), false, body)
}

func (p *Publisher) publishMQTT(topic string, retained bool, body []byte) error {
	token := p.client.Publish(topic, 1, retained, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// HAPayload matches the Home Assistant states API body
type HAPayload struct {
	State      string `json:"state"`
	Attributes State  `json:"attributes"`
}

func (p *Publisher) postState(st State) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", p.haConfig.URL, p.haConfig.EntityID)

	// Create payload for Home Assistant
	body, err := json.Marshal(HAPayload{State: strconv.Itoa(st.CurrentStreak), Attributes: st})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	// Create HTTP request
	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	// Send request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// 201 when the entity is created, 200 on update
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Read error response body for debugging
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
