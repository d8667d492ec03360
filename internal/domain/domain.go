package domain

import "github.com/yungbote/courseprogress-backend/internal/domain/learning"

type Course = learning.Course
type Roadmap = learning.Roadmap
type Step = learning.Step
type Content = learning.Content
type ContentType = learning.ContentType

const (
	ContentTypeText         = learning.ContentTypeText
	ContentTypeVideoLink    = learning.ContentTypeVideoLink
	ContentTypeDocumentLink = learning.ContentTypeDocumentLink
	ContentTypeExternalLink = learning.ContentTypeExternalLink
)

type Enrollment = learning.Enrollment
type EnrollmentStatus = learning.EnrollmentStatus

var ParseEnrollmentStatus = learning.ParseEnrollmentStatus

const (
	EnrollmentStatusAll       = learning.EnrollmentStatusAll
	EnrollmentStatusActive    = learning.EnrollmentStatusActive
	EnrollmentStatusCompleted = learning.EnrollmentStatusCompleted
)

type Progress = learning.Progress

type Event = learning.Event
type EventType = learning.EventType
type ContentCompleted = learning.ContentCompleted
type CourseCompleted = learning.CourseCompleted

const (
	EventContentCompleted = learning.EventContentCompleted
	EventCourseCompleted  = learning.EventCourseCompleted
)
