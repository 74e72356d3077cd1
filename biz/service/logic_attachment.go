package service

import (
	"context"

	"github.com/yi-nology/itam/biz/dal/model"
)

// --------------------- Attachment Operations ---------------------

func (l *Logic) CreateAttachment(ctx context.Context, attachment *model.Attachment) error {
	return l.attachmentDAO.Create(ctx, l.db, attachment)
}

func (l *Logic) GetAttachment(ctx context.Context, fileID string) (*model.Attachment, error) {
	attachment, err := l.attachmentDAO.GetByFileID(ctx, l.db, fileID)
	if err != nil {
		return nil, notFound(err, ErrAttachmentNotFound)
	}
	return attachment, nil
}

func (l *Logic) ListAttachments(ctx context.Context, entityID uint) ([]model.Attachment, error) {
	return l.attachmentDAO.ListByEntity(ctx, l.db, entityID)
}

func (l *Logic) DeleteAttachment(ctx context.Context, fileID string) error {
	return notFound(l.attachmentDAO.DeleteByFileID(ctx, l.db, fileID), ErrAttachmentNotFound)
}
