package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/pitangasoft/compras_backend/config"
)

func NewTrue() *bool {
	b := true
	return &b
}

func GenerateUniqueFilename() string {

	timestamp := time.Now().UnixNano()

	random := rand.Intn(1000)

	uniqueFilename := fmt.Sprintf("%d_%d", timestamp, random)

	return uniqueFilename
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

// ImportLock obtains the per-business import lock. Two concurrent import
// runs against the same catalog can each miss the other's in-flight
// supplier/product insertions and create duplicates, so runs are serialized
// per business.
func ImportLock(ctx context.Context, businessId string, moduleName string, functionName string) (*redislock.Lock, error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", businessId, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("import:%s", businessId)
	lock, err := locker.Obtain(ctx, lockKey, 5*time.Minute, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain import lock for businessID", businessId, err)
		return nil, errors.New("another import is already running for this business")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining import lock for businessID", businessId, err)
		return nil, err
	}
	return lock, nil
}
