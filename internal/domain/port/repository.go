package port

import (
	"context"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
	"github.com/google/uuid"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.LectureJob) error
	Update(ctx context.Context, job *entity.LectureJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LectureJob, error)
}
