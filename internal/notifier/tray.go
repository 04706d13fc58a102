package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/logger"
	"github.com/julianstephens/wird/internal/models"
)

const trayExecutable = "wird-tray"

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Tray forwards notifications to the desktop tray app over its local webhook.
// When the tray app is not running notifications are dropped.
type Tray struct {
	duration time.Duration
	client   *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewTray(duration time.Duration) *Tray {
	if duration <= 0 {
		duration = constants.NotificationDuration
	}
	return &Tray{
		duration: duration,
		client:   &http.Client{Timeout: 2 * time.Second},
	}
}

// Notify implements Sink. Delivery failures are logged, not returned.
func (t *Tray) Notify(n models.Notification) {
	if err := t.Send(n); err != nil {
		logger.Debug("tray notification not delivered", "id", n.ID, "error", err)
	}
}

// Send delivers one notification and reports why it could not.
func (t *Tray) Send(n models.Notification) error {
	trayAppConfigPath, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayAppConfigPath, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Text:       n.Message,
		Kind:       string(n.Kind),
		DurationMs: uint32(t.duration.Milliseconds()),
	}
	return t.post(port, secret, payload)
}

// GetTrayAppConfigDir returns where the tray app keeps its lockfile, honoring
// a lockfile_dir override in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}

	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
			return *store.Settings.LockfileDir, nil
		}
	}
	return trayConfigDir, nil
}

// findAndValidateTrayProcess parses the "port|pid|secret" lockfile and checks
// that the pid still belongs to the tray app.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New(trayExecutable + " is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New(trayExecutable + " process not running")
	}
	if !strings.HasPrefix(process.Executable(), trayExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, trayExecutable, process.Executable())
	}

	return port, secret, nil
}

func (t *Tray) post(port string, secret string, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Wird-Secret", secret)

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
