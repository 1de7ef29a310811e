package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

type accountRepository struct {
	coll *mongo.Collection
}

// NewAccountRepository stores accounts in coll.
func NewAccountRepository(coll *mongo.Collection) repository.AccountRepository {
	return &accountRepository{coll: coll}
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&account); err != nil {
		return models.Account{}, translate(err, "find account")
	}
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = newID()
	}
	ts := now()
	account.CreatedAt, account.UpdatedAt = ts, ts

	_, err := r.coll.InsertOne(ctx, account)
	return translate(err, "create account")
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return translate(err, "delete account")
}

type courseRepository struct {
	coll *mongo.Collection
}

// NewCourseRepository stores course records in coll.
func NewCourseRepository(coll *mongo.Collection) repository.CourseRepository {
	return &courseRepository{coll: coll}
}

func (r *courseRepository) FindByStudentID(ctx context.Context, studentID string) (models.CourseRecord, error) {
	var record models.CourseRecord
	if err := r.coll.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&record); err != nil {
		return models.CourseRecord{}, translate(err, "find course record")
	}
	return record, nil
}

func (r *courseRepository) Create(ctx context.Context, record *models.CourseRecord) error {
	if record.ID == "" {
		record.ID = newID()
	}
	_, err := r.coll.InsertOne(ctx, record)
	return translate(err, "create course record")
}
