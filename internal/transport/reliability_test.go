package transport

import "testing"

func TestClassifyBestEffortTypes(t *testing.T) {
	for _, msgType := range []string{"state", "pong"} {
		if classify(msgType) != bestEffort {
			t.Fatalf("expected %q classified best-effort", msgType)
		}
	}
}

func TestClassifyReliableTypes(t *testing.T) {
	reliableTypes := []string{
		"damage_event", "entity_spawn", "entity_despawn", "level_up",
		"player_died", "player_respawned", "player_joined", "player_left",
		"ability_telegraph", "world_init",
	}
	for _, msgType := range reliableTypes {
		if classify(msgType) != reliable {
			t.Fatalf("expected %q classified reliable", msgType)
		}
	}
}

func TestClassifyUnknownTypeDefaultsReliable(t *testing.T) {
	if classify("something_new") != reliable {
		t.Fatalf("expected an unrecognized message type to default to reliable, the safer lane")
	}
}
