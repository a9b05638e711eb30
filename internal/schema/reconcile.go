package schema

import (
	"fmt"
	"strings"
)

// reconcileImage enforces the three-way consistency between a target's
// composite image reference and its repository/tag parts, mutating the
// target so that all three are populated and consistent afterwards.
//
// Rules, in order:
//   - image unset, repository and tag set: image is derived from them.
//   - image unset, neither part set: the fallback image applies.
//   - image unset, exactly one part set: error, the pair is incomplete.
//   - image set: it must parse as repository:tag; parts that were set
//     independently must match exactly, unset parts are back-filled.
//
// This runs once per target, after field validation, and is the only
// place validation writes into sibling fields.
func reconcileImage(path string, t *Target) error {
	if t.Image == "" {
		switch {
		case t.Repository != "" && t.Tag != "":
			t.Image = t.Repository + ":" + t.Tag
			return nil
		case t.Repository == "" && t.Tag == "":
			t.Image = FallbackImage
		case t.Repository != "":
			return &ImageConsistencyError{
				Path:   path,
				Reason: fmt.Sprintf("repository %q is set without a tag and no image is given", t.Repository),
			}
		default:
			return &ImageConsistencyError{
				Path:   path,
				Reason: fmt.Sprintf("tag %q is set without a repository and no image is given", t.Tag),
			}
		}
	}

	sep := strings.LastIndex(t.Image, ":")
	if sep <= 0 || sep == len(t.Image)-1 {
		return &ImageConsistencyError{
			Path:   path,
			Image:  t.Image,
			Reason: fmt.Sprintf("image %q must have the form repository:tag", t.Image),
		}
	}
	repo, tag := t.Image[:sep], t.Image[sep+1:]

	if t.Repository != "" && t.Repository != repo {
		return &ImageConsistencyError{Path: path, Image: t.Image, Field: "repository", Want: repo, Got: t.Repository}
	}
	t.Repository = repo

	if t.Tag != "" && t.Tag != tag {
		return &ImageConsistencyError{Path: path, Image: t.Image, Field: "tag", Want: tag, Got: t.Tag}
	}
	t.Tag = tag

	return nil
}
