package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoomJSON() json.RawMessage {
	return json.RawMessage(`{
		"gameId": "ROOM01",
		"host": "alice",
		"players": [
			{"name": "alice", "score": 0},
			{"name": "bob", "score": 0}
		],
		"questions": [
			{"question": "q1", "options": ["a", "b"], "correctAnswer": "a"},
			{"question": "q2", "options": ["c", "d"], "correctAnswer": "d"}
		],
		"currentQuestion": 1,
		"gameStarted": false,
		"timeLimit": 30
	}`)
}

func TestDecodeRoomValid(t *testing.T) {
	room, err := DecodeRoom(EventHostJoined, validRoomJSON())
	require.NoError(t, err)

	assert.Equal(t, "ROOM01", string(room.ID))
	assert.Len(t, room.Players, 2)
	assert.Len(t, room.Questions, 2)
	assert.Equal(t, 30, room.TimeLimitSeconds)
}

func TestDecodeRoomRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"missing room id", `{"players": [], "questions": [], "currentQuestion": 1}`},
		{"question index zero", `{"gameId": "R", "currentQuestion": 0, "questions": []}`},
		{
			"question index past end plus one",
			`{"gameId": "R", "currentQuestion": 4, "questions": [
				{"question": "q", "options": ["a", "b"], "correctAnswer": "a"}
			]}`,
		},
		{
			"too few options",
			`{"gameId": "R", "currentQuestion": 1, "questions": [
				{"question": "q", "options": ["a"], "correctAnswer": "a"}
			]}`,
		},
		{
			"correct answer not among options",
			`{"gameId": "R", "currentQuestion": 1, "questions": [
				{"question": "q", "options": ["a", "b"], "correctAnswer": "z"}
			]}`,
		},
		{
			"duplicate player names",
			`{"gameId": "R", "currentQuestion": 1, "questions": [],
			  "players": [{"name": "alice"}, {"name": "alice"}]}`,
		},
		{
			"empty player name",
			`{"gameId": "R", "currentQuestion": 1, "questions": [],
			  "players": [{"name": ""}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRoom(EventPlayerJoined, json.RawMessage(tt.data))
			require.Error(t, err)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, EventPlayerJoined, decodeErr.Event)
		})
	}
}

func TestDecodeScoreUpdate(t *testing.T) {
	p, err := DecodeScoreUpdate(json.RawMessage(`{"playerName": "bob", "score": 183}`))
	require.NoError(t, err)
	assert.Equal(t, "bob", string(p.PlayerName))
	assert.Equal(t, 183, p.Score)

	_, err = DecodeScoreUpdate(json.RawMessage(`{"score": 10}`))
	assert.Error(t, err)

	_, err = DecodeScoreUpdate(json.RawMessage(`{"playerName": "bob", "score": -1}`))
	assert.Error(t, err)
}

func TestDecodeMessage(t *testing.T) {
	p, err := DecodeMessage(json.RawMessage(`{"text": "hi", "playerName": "bob"}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Text)

	_, err = DecodeMessage(json.RawMessage(`{"text": "hi"}`))
	assert.Error(t, err)
}

func TestDecodeNextQuestion(t *testing.T) {
	p, err := DecodeNextQuestion(json.RawMessage(`{"index": 3}`))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Index)

	_, err = DecodeNextQuestion(json.RawMessage(`{"index": 0}`))
	assert.Error(t, err)
}

func TestDecodeServerError(t *testing.T) {
	p, err := DecodeServerError(json.RawMessage(`{"message": "not your turn", "code": "forbidden"}`))
	require.NoError(t, err)
	assert.Equal(t, "not your turn", p.Message)

	_, err = DecodeServerError(json.RawMessage(`{"code": "forbidden"}`))
	assert.Error(t, err)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(EventSubmitAnswer, SubmitAnswerPayload{
		RoomID:         "ROOM01",
		PlayerName:     "alice",
		Points:         183,
		ElapsedSeconds: 5,
	})
	require.NoError(t, err)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, EventSubmitAnswer, decoded.Event)

	var payload SubmitAnswerPayload
	require.NoError(t, json.Unmarshal(decoded.Data, &payload))
	assert.Equal(t, 183, payload.Points)
}

func TestEnvelopeWithoutPayload(t *testing.T) {
	env, err := NewEnvelope(EventStartGame, nil)
	require.NoError(t, err)
	assert.Nil(t, env.Data)
}
