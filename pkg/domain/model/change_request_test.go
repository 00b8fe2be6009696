package model_test

import (
	"testing"

	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestChangeRequest_Validate(t *testing.T) {
	valid := func() *model.ChangeRequest {
		return &model.ChangeRequest{
			Owner:      "octo",
			Repo:       "app",
			Number:     42,
			MergeSHA:   "abcdef0",
			BaseBranch: "main",
		}
	}

	gt.NoError(t, valid().Validate())
	gt.Equal(t, valid().FullName(), "octo/app")

	cr := valid()
	cr.Owner = ""
	gt.Error(t, cr.Validate())

	cr = valid()
	cr.Number = 0
	gt.Error(t, cr.Validate())

	cr = valid()
	cr.MergeSHA = ""
	gt.Error(t, cr.Validate())
}
