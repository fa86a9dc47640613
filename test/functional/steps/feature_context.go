package steps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"formfield-server/test/functional/driver"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

type FeatureContext struct {
	apiDriver        *driver.APIDriver
	response         *http.Response
	responseData     map[string]any
	responseListData []map[string]any
	formID           string
	fieldID          string
	fieldName        string
	conditionFieldID string
	duplicateFieldID string
	require          *require.Assertions
	t                godog.TestingT
}

func NewFeatureContext() *FeatureContext {
	return &FeatureContext{
		apiDriver: driver.NewAPIDriver("http://localhost:3000"),
	}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	// Generic steps
	ctx.Step(`^wait for (.*)$`, fc.waitForDuration)
	ctx.Then(`^the response status code should be (\d+)$`, fc.theResponseStatusCodeShouldBe)

	// Form steps
	ctx.When(`^I create a new form titled "([^"]*)"$`, fc.iCreateANewFormTitled)
	ctx.Given(`^a form exists titled "([^"]*)"$`, fc.aFormExistsTitled)
	ctx.When(`^I get the form by its ID$`, fc.iGetTheFormByItsID)
	ctx.Then(`^the response should contain the form details$`, fc.theResponseShouldContainTheFormDetails)
	ctx.Then(`^the response should contain the form with title "([^"]*)"$`, fc.theResponseShouldContainTheFormWithTitle)

	// Field steps
	ctx.When(`^I create a "([^"]*)" field titled "([^"]*)"$`, fc.iCreateAFieldTitled)
	ctx.Given(`^a "([^"]*)" field exists titled "([^"]*)"$`, fc.aFieldExistsTitled)
	ctx.Given(`^a required "([^"]*)" field exists titled "([^"]*)"$`, fc.aRequiredFieldExistsTitled)
	ctx.Given(`^a legacy field exists with settings:$`, fc.aLegacyFieldExistsWithSettings)
	ctx.Then(`^the response should contain the field details$`, fc.theResponseShouldContainTheFieldDetails)
	ctx.Then(`^the field name should be derived from its kind$`, fc.theFieldNameShouldBeDerivedFromItsKind)
	ctx.When(`^I update the field with a new title "([^"]*)"$`, fc.iUpdateTheFieldWithANewTitle)
	ctx.Then(`^the response should contain the field with title "([^"]*)"$`, fc.theResponseShouldContainTheFieldWithTitle)
	ctx.Then(`^the field version should be (\d+)$`, fc.theFieldVersionShouldBe)
	ctx.When(`^I list the draft fields$`, fc.iListTheDraftFields)
	ctx.When(`^I list the live fields$`, fc.iListTheLiveFields)
	ctx.Then(`^the list should contain the field titled "([^"]*)"$`, fc.theListShouldContainTheFieldTitled)
	ctx.Then(`^the list should be empty$`, fc.theListShouldBeEmpty)
	ctx.When(`^I delete the field$`, fc.iDeleteTheField)
	ctx.When(`^I try to get the field by its ID$`, fc.iTryToGetTheFieldByItsID)
	ctx.When(`^I get the field by its ID$`, fc.iGetTheFieldByItsID)

	// Option steps
	ctx.Given(`^an option exists labelled "([^"]*)"$`, fc.anOptionExistsLabelled)
	ctx.When(`^I create an option labelled "([^"]*)"$`, fc.iCreateAnOptionLabelled)
	ctx.When(`^I list the live options$`, fc.iListTheLiveOptions)
	ctx.Then(`^the list should contain the option labelled "([^"]*)"$`, fc.theListShouldContainTheOptionLabelled)

	// Display rule steps
	ctx.Given(`^a display rule exists watching the other field for value "([^"]*)"$`, fc.aDisplayRuleExistsWatchingTheOtherField)
	ctx.When(`^I list the live rules$`, fc.iListTheLiveRules)
	ctx.Then(`^the list should contain our display rule$`, fc.theListShouldContainOurDisplayRule)

	// Publishing steps
	ctx.When(`^I publish the field$`, fc.iPublishTheField)
	ctx.When(`^I publish the condition field$`, fc.iPublishTheConditionField)
	ctx.When(`^I unpublish the field$`, fc.iUnpublishTheField)
	ctx.When(`^I try to get the live field by its ID$`, fc.iTryToGetTheLiveFieldByItsID)
	ctx.When(`^I get the live field by its ID$`, fc.iGetTheLiveFieldByItsID)
	ctx.When(`^I check the field status$`, fc.iCheckTheFieldStatus)
	ctx.Then(`^the field should be marked as modified$`, fc.theFieldShouldBeMarkedAsModified)
	ctx.Then(`^the field should not be marked as modified$`, fc.theFieldShouldNotBeMarkedAsModified)
	ctx.When(`^I duplicate the field$`, fc.iDuplicateTheField)
	ctx.Then(`^the response should contain a draft copy of the field$`, fc.theResponseShouldContainADraftCopyOfTheField)

	// Migration steps
	ctx.When(`^I migrate the field$`, fc.iMigrateTheField)
	ctx.When(`^I run a migration sweep$`, fc.iRunAMigrationSweep)
	ctx.Then(`^the field should be migrated$`, fc.theFieldShouldBeMigrated)
	ctx.Then(`^the migration report should count (\d+) migrated$`, fc.theMigrationReportShouldCountMigrated)

	// Submission steps
	ctx.When(`^I validate a submission with the field set to "([^"]*)"$`, fc.iValidateASubmissionWithTheFieldSetTo)
	ctx.When(`^I validate an empty submission$`, fc.iValidateAnEmptySubmission)
	ctx.Then(`^the submission should be valid$`, fc.theSubmissionShouldBeValid)
	ctx.Then(`^the submission should be invalid$`, fc.theSubmissionShouldBeInvalid)
	ctx.Then(`^the validation errors should mention "([^"]*)"$`, fc.theValidationErrorsShouldMention)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.t = godog.T(ctx)
		fc.require = require.New(fc.t)

		fc.reset()
		return ctx, nil
	})
}

func (fc *FeatureContext) reset() {
	fc.response = nil
	fc.responseData = nil
	fc.responseListData = nil
	fc.formID = ""
	fc.fieldID = ""
	fc.fieldName = ""
	fc.conditionFieldID = ""
	fc.duplicateFieldID = ""
}

func (fc *FeatureContext) decodeBody(body io.ReadCloser, target any) error {
	return json.NewDecoder(body).Decode(target)
}

func (fc *FeatureContext) decodeListResponse(resp *http.Response) []map[string]any {
	var listResp struct {
		Data []map[string]any `json:"data"`
	}
	err := fc.decodeBody(resp.Body, &listResp)
	fc.require.NoError(err)
	return listResp.Data
}
