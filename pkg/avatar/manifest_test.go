package avatar

import (
	"os"
	"path/filepath"
	"testing"
)

const queryTreeFixture = `{
  "CONTENTS": {
    "avatar": {
      "CONTENTS": {
        "change": {"TYPE": "s"},
        "parameters": {
          "CONTENTS": {
            "AutoPilot":    {"TYPE": "T"},
            "TrackingType": {"TYPE": "i"},
            "VelocityY":    {"TYPE": "f"},
            "Go": {
              "CONTENTS": {
                "StandIdle": {"TYPE": "f"},
                "Locomotion": {"TYPE": "F"}
              }
            },
            "FT": {
              "CONTENTS": {
                "v2": {
                  "CONTENTS": {
                    "JawOpen": {"TYPE": "f"}
                  }
                }
              }
            },
            "Blob": {"TYPE": "b"}
          }
        }
      }
    }
  }
}`

func TestParseQueryTree(t *testing.T) {
	m, err := ParseQueryTree([]byte(queryTreeFixture))
	if err != nil {
		t.Fatalf("ParseQueryTree: %v", err)
	}

	want := map[string]Kind{
		"AutoPilot":     KindBool,
		"TrackingType":  KindInt,
		"VelocityY":     KindFloat,
		"Go/StandIdle":  KindFloat,
		"Go/Locomotion": KindBool,
		"FT/v2/JawOpen": KindFloat,
	}
	if m.Len() != len(want) {
		t.Fatalf("got %d parameters %v, want %d", m.Len(), m.Names(), len(want))
	}
	for name, kind := range want {
		got, ok := m.Kind(name)
		if !ok {
			t.Fatalf("missing parameter %s", name)
		}
		if got != kind {
			t.Fatalf("%s: kind %v, want %v", name, got, kind)
		}
	}
	// Unsupported type tags are not parameters.
	if m.Has("Blob") {
		t.Fatal("kept parameter with unsupported type tag")
	}
}

func TestParseQueryTreeAcceptsAvatarSubtree(t *testing.T) {
	// Querying the /avatar path returns that subtree as the document
	// root.
	const subtree = `{
  "CONTENTS": {
    "change": {"TYPE": "s"},
    "parameters": {
      "CONTENTS": {
        "VelocityY": {"TYPE": "f"}
      }
    }
  }
}`
	m, err := ParseQueryTree([]byte(subtree))
	if err != nil {
		t.Fatalf("ParseQueryTree: %v", err)
	}
	if k, ok := m.Kind("VelocityY"); !ok || k != KindFloat {
		t.Fatalf("VelocityY = %v, %v", k, ok)
	}
}

func TestParseQueryTreeRequiresParameterSubtree(t *testing.T) {
	if _, err := ParseQueryTree([]byte(`{"CONTENTS":{}}`)); err == nil {
		t.Fatal("accepted tree without avatar parameters")
	}
	if _, err := ParseQueryTree([]byte(`not json`)); err == nil {
		t.Fatal("accepted malformed tree")
	}
}

const avatarFileFixture = `{
  "id": "avtr_9f2",
  "name": "Courier",
  "parameters": [
    {"name": "JawOpen", "input": {"address": "/avatar/parameters/JawOpen", "type": "Float"}},
    {"name": "Seated", "input": {"address": "/avatar/parameters/Seated", "type": "Bool"}},
    {"name": "Gesture", "input": {"address": "/avatar/parameters/Gesture", "type": "Int"}},
    {"name": "Voice", "output": {"address": "/avatar/parameters/Voice", "type": "Float"}}
  ]
}`

func TestLoadFileKeepsWritableParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.json")
	if err := os.WriteFile(path, []byte(avatarFileFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m.Avatar != "avtr_9f2" {
		t.Fatalf("avatar id = %s, want avtr_9f2", m.Avatar)
	}
	if k, _ := m.Kind("JawOpen"); k != KindFloat {
		t.Fatalf("JawOpen kind = %v, want float", k)
	}
	if k, _ := m.Kind("Seated"); k != KindBool {
		t.Fatalf("Seated kind = %v, want bool", k)
	}
	if k, _ := m.Kind("Gesture"); k != KindInt {
		t.Fatalf("Gesture kind = %v, want int", k)
	}
	// Output-only parameters cannot be driven.
	if m.Has("Voice") {
		t.Fatal("kept output-only parameter")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("accepted missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("accepted malformed file")
	}
}
