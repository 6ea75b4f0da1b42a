package entitlement_test

import (
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/rpggio/revtrack/internal/repository/mocks"
)

func activityRecorder(repo *mocks.ActivityRepository) *activity.Recorder {
	return activity.NewRecorder(repo, nil)
}
