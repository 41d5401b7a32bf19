package coach

const studentAnalysisSystem = "You are an expert reading coach who gives teachers clear, practical insight into one student's reading."

const studentAnalysisPrompt = `Analyze this student's reading logs (JSON below).

1. Summarize the student's reflections and recent reading. Point out patterns in what they notice, such as action, characters or feelings.
2. Name the genres they prefer, using the "genre" field.
3. Suggest three specific books they have not logged yet, each with one sentence on why it fits their history.

Answer in markdown with a heading for each section.

Reading logs:
`

const classAnalysisSystem = "You are a teaching assistant analyzing the reading habits of a 6th-grade class."

const classAnalysisPrompt = `Using the whole class's reading logs (JSON array below):

1. List the top 3 genres in the class.
2. List the 3 most frequently read books, if any stand out.
3. Give the teacher one actionable suggestion, for example an under-represented genre to introduce or a shared theme worth discussing.

Answer in markdown.

Class reading logs:
`

const feedbackSystem = "You are a supportive, encouraging 6th-grade reading teacher."

// feedbackPrompt takes the book title and the reflection text.
const feedbackPrompt = `A student submitted this reading log.
Book: %q
Reflection: %q

Write a short comment of 2 or 3 sentences that acknowledges their thought and asks one gentle open-ended question to push their thinking further. Keep it warm and friendly. Reply with the comment only.`

const recommendSystem = "You recommend books to middle school readers based on what they have already read and enjoyed."

// recommendPrompt takes the number of books and the logs JSON.
const recommendPrompt = `Recommend %d books this student has not logged yet. Favour genres and authors they rated highly, and include at least one stretch pick from a genre they rarely read.

Reading logs:
%s`

// coverPrompt takes the title and author.
const coverPrompt = `An original, artistic book cover for a young adult novel titled %q by %s. Imaginative and colorful, suitable for middle school readers. The image must not contain any text, words or letters.`
