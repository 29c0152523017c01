package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/pkg/serverutils"
	"sycophancy-survey-be/pkg/survey"
)

func TestWorkflowConsentAndDemographics(t *testing.T) {
	_, _, srv := setupApp(t)
	app := srv.GetApp()

	clientKey := fmt.Sprintf("it-%d", time.Now().UnixNano())

	doJSON := func(method, path string, payload interface{}) (int, serverutils.BaseResponse[dto.WorkflowStateResponse]) {
		var body strings.Reader
		if payload != nil {
			raw, _ := json.Marshal(payload)
			body = *strings.NewReader(string(raw))
		}
		req := httptest.NewRequest(method, path, &body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Survey-Client", clientKey)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		var parsed serverutils.BaseResponse[dto.WorkflowStateResponse]
		_ = json.NewDecoder(resp.Body).Decode(&parsed)
		return resp.StatusCode, parsed
	}

	// Fresh client starts at consent.
	status, state := doJSON("GET", "/api/workflow/v1/state", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, survey.StepConsent, state.Data.CurrentStep)
	assert.Equal(t, 5.0, state.Data.Progress)

	// Demographics before consent is rejected.
	status, _ = doJSON("POST", "/api/workflow/v1/demographics", dto.CreateParticipantRequest{
		Name: "Flow Tester", Age: 31, Location: "Berlin", Profession: "Analyst", Education: "masters",
	})
	assert.Equal(t, 409, status)

	status, state = doJSON("POST", "/api/workflow/v1/consent", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, survey.StepDemographics, state.Data.CurrentStep)

	// Double consent is rejected.
	status, _ = doJSON("POST", "/api/workflow/v1/consent", nil)
	assert.Equal(t, 409, status)

	status, state = doJSON("POST", "/api/workflow/v1/demographics", dto.CreateParticipantRequest{
		Name: "Flow Tester", Age: 31, Location: "Berlin", Profession: "Analyst", Education: "masters",
	})
	require.Equal(t, 200, status)
	assert.Equal(t, survey.StepChallenge, state.Data.CurrentStep)
	assert.Equal(t, 1, state.Data.CurrentChallengeNumber)
	assert.NotEmpty(t, state.Data.ParticipantId)

	// State survives a reload of the same client key.
	status, state = doJSON("GET", "/api/workflow/v1/state", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, survey.StepChallenge, state.Data.CurrentStep)

	// Missing client header is a 400.
	req := httptest.NewRequest("GET", "/api/workflow/v1/state", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	// Reset drops the wizard back to consent.
	status, state = doJSON("POST", "/api/workflow/v1/reset", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, survey.StepConsent, state.Data.CurrentStep)
}

func TestSurveyChallengeCatalog(t *testing.T) {
	_, _, srv := setupApp(t)
	app := srv.GetApp()

	// Ensure the catalog exists (idempotent).
	req := httptest.NewRequest("POST", "/api/survey/v1/challenges/init", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/survey/v1/challenges", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var parsed serverutils.BaseResponse[[]dto.ChallengeResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Len(t, parsed.Data, survey.ChallengeCount)
	for i, challenge := range parsed.Data {
		assert.Equal(t, i+1, challenge.Number)
		assert.NotEmpty(t, challenge.Title)
		assert.NotEmpty(t, challenge.UserPrompt)
		assert.NotEqual(t, challenge.SystemPromptA, challenge.SystemPromptB)
	}
}
