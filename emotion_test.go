package gotmem

import "testing"

func TestAnalyzeEmotion_Neutral(t *testing.T) {
	for _, text := range []string{
		"Open the door.",
		"The shop is closed on Sundays.",
		"",
	} {
		got := AnalyzeEmotion(text)
		if got.Primary != EmotionNeutral {
			t.Errorf("AnalyzeEmotion(%q).Primary = %s, want neutral", text, got.Primary)
		}
		if got.Confidence != 90 {
			t.Errorf("neutral confidence = %d, want 90", got.Confidence)
		}
		if got.Intensity != IntensityLow {
			t.Errorf("neutral intensity = %s, want low", got.Intensity)
		}
		if got.Secondary != "" {
			t.Errorf("neutral result carries secondary %s", got.Secondary)
		}
		if len(got.Markers) != 0 {
			t.Errorf("neutral markers = %v, want none", got.Markers)
		}
	}
}

func TestAnalyzeEmotion_SingleKeyword(t *testing.T) {
	got := AnalyzeEmotion("I'm so happy today")
	if got.Primary != EmotionJoy {
		t.Fatalf("Primary = %s, want joy", got.Primary)
	}
	if got.Confidence != 60 { // 50 + one keyword
		t.Errorf("Confidence = %d, want 60", got.Confidence)
	}
	if got.Intensity != IntensityLow {
		t.Errorf("Intensity = %s, want low", got.Intensity)
	}
	if len(got.Markers) != 1 || got.Markers[0] != "happy" {
		t.Errorf("Markers = %v, want [happy]", got.Markers)
	}
}

func TestAnalyzeEmotion_ShoutedAnger(t *testing.T) {
	// "hate" keyword, the !!! pattern, repeated exclamations and all-caps
	// stack up to a high-intensity reading.
	got := AnalyzeEmotion("I HATE YOU!!!")
	if got.Primary != EmotionAnger {
		t.Fatalf("Primary = %s, want anger", got.Primary)
	}
	if got.Intensity != IntensityHigh {
		t.Errorf("Intensity = %s, want high", got.Intensity)
	}
	if got.Confidence != 95 { // 50 + 50, capped
		t.Errorf("Confidence = %d, want 95", got.Confidence)
	}
	if got.Secondary != "" { // Excitement only reaches 10
		t.Errorf("Secondary = %s, want none", got.Secondary)
	}
}

func TestAnalyzeEmotion_Sadness(t *testing.T) {
	got := AnalyzeEmotion("Farewell... tears fall.")
	if got.Primary != EmotionSadness {
		t.Fatalf("Primary = %s, want sadness", got.Primary)
	}
	if got.Intensity != IntensityMedium { // Two keywords plus the ellipsis
		t.Errorf("Intensity = %s, want medium", got.Intensity)
	}
	if got.Confidence != 75 {
		t.Errorf("Confidence = %d, want 75", got.Confidence)
	}
	if got.Secondary != "" { // Fear and tension only get the ellipsis 5
		t.Errorf("Secondary = %s, want none", got.Secondary)
	}
	if !containsMarker(got.Markers, "...") {
		t.Errorf("Markers = %v, expected the ellipsis marker", got.Markers)
	}
}

func TestAnalyzeEmotion_Surprise(t *testing.T) {
	got := AnalyzeEmotion("What?! Impossible!")
	if got.Primary != EmotionSurprise {
		t.Fatalf("Primary = %s, want surprise", got.Primary)
	}
	if got.Intensity != IntensityMedium {
		t.Errorf("Intensity = %s, want medium", got.Intensity)
	}
	if !containsMarker(got.Markers, "?!") {
		t.Errorf("Markers = %v, expected the ?! pattern marker", got.Markers)
	}
}

func TestAnalyzeEmotion_Secondary(t *testing.T) {
	got := AnalyzeEmotion("I will protect you, no matter what! Let's go!")
	if got.Primary != EmotionDetermination {
		t.Fatalf("Primary = %s, want determination", got.Primary)
	}
	if got.Secondary != EmotionExcitement {
		t.Errorf("Secondary = %s, want excitement", got.Secondary)
	}
	if got.Intensity != IntensityHigh {
		t.Errorf("Intensity = %s, want high", got.Intensity)
	}
}

func TestAnalyzeEmotion_MarkerCap(t *testing.T) {
	got := AnalyzeEmotion("happy glad wonderful great laugh smile celebrate")
	if got.Primary != EmotionJoy {
		t.Fatalf("Primary = %s, want joy", got.Primary)
	}
	if len(got.Markers) != maxMarkers {
		t.Errorf("got %d markers, want cap of %d: %v", len(got.Markers), maxMarkers, got.Markers)
	}
	if got.Confidence != 95 {
		t.Errorf("Confidence = %d, want capped 95", got.Confidence)
	}
}

func TestAnalyzeEmotion_Deterministic(t *testing.T) {
	text := "Watch out! Danger ahead! I won't run away..."
	first := AnalyzeEmotion(text)
	for i := 0; i < 20; i++ {
		again := AnalyzeEmotion(text)
		if again.Primary != first.Primary || again.Secondary != first.Secondary ||
			again.Confidence != first.Confidence || again.Intensity != first.Intensity {
			t.Fatalf("analysis drifted on run %d: %+v vs %+v", i, again, first)
		}
	}
}

func TestIsShouting(t *testing.T) {
	if isShouting("OK!!") {
		t.Error("short caps should not count as shouting")
	}
	if !isShouting("GET OUT OF HERE") {
		t.Error("all-caps sentence should count as shouting")
	}
	if isShouting("Get out of here") {
		t.Error("sentence case is not shouting")
	}
}

func containsMarker(markers []string, want string) bool {
	for _, m := range markers {
		if m == want {
			return true
		}
	}
	return false
}
