package services

// Services defined in this package:
// - AuthService: authentication, registration and profile management
// - CourseService: catalog queries and course/lesson administration
// - EnrollmentService: enrollment lifecycle and lesson progress
// - ReviewService: course reviews and rating aggregates
