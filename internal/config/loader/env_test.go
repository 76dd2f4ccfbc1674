package loader

import (
	"strings"
	"testing"
	"time"
)

func getByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("SSHLM_LOG_LEVEL", "debug")
	t.Setenv("SSHLM_LOG_FILE", "off")
	t.Setenv("SSHLM_READ_CHUNK", "1")
	t.Setenv("SSHLM_INPUT_TIMEOUT", "100ms")
	t.Setenv("SSHLM_COMMAND", `["mosh", "--"]`)

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"logging.file", "off"},
		{"session.readChunk", int64(1)},
		{"session.inputTimeout", 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if val, ok := getByPath(config, tt.path); !ok || val != tt.want {
			t.Errorf("%s = %v (%T), want %v (%T)", tt.path, val, val, tt.want, tt.want)
		}
	}

	cmd, ok := getByPath(config, "session.command")
	if !ok {
		t.Fatal("session.command not set")
	}
	list, ok := cmd.([]any)
	if !ok || len(list) != 2 || list[0] != "mosh" {
		t.Errorf("session.command = %#v, want [mosh --]", cmd)
	}
}

func TestEnvLoader_LoadUnmapped(t *testing.T) {
	t.Setenv("SSHLM_SESSION_RESIZE_INTERVAL", "2s")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := getByPath(config, "session.resizeInterval"); !ok || val != 2*time.Second {
		t.Errorf("session.resizeInterval = %v, want 2s", val)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	loader := NewEnvLoader(EnvPrefix)

	tests := []struct {
		env  string
		want string
	}{
		{"SSHLM_LOGGING_LEVEL", "logging.level"},
		{"SSHLM_SESSION_READ_CHUNK", "session.readChunk"},
		{"SSHLM_QUITPROMPT_MESSAGE", "quitprompt.message"},
		{"SSHLM_DEBUG", "debug"},
	}

	for _, tt := range tests {
		if got := loader.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestEnvLoader_parseValue(t *testing.T) {
	loader := NewEnvLoader(EnvPrefix)

	tests := []struct {
		input string
		want  any
	}{
		{"", ""},
		{"true", true},
		{"FALSE", false},
		{"off", "off"},
		{"0", int64(0)},
		{"1024", int64(1024)},
		{"1s", time.Second},
		{"[quit? y/n]", "[quit? y/n]"},
		{"hello", "hello"},
	}

	for _, tt := range tests {
		if got := loader.parseValue(tt.input); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	t.Setenv("MY_PROMPT", "bye?")

	loader := NewEnvLoaderWithMapping(EnvPrefix, nil)
	loader.AddMapping("MY_PROMPT", "quitPrompt.message")

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, _ := getByPath(config, "quitPrompt.message"); val != "bye?" {
		t.Errorf("quitPrompt.message = %v, want bye?", val)
	}
}
