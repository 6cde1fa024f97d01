package service

// SampleText is the demonstration document shown on first run
const SampleText = `The quick brown fox jumps over the lazy dog. This is a sample paragraph to demonstrate the text analysis capabilities of our tool.

Text analysis is an important skill in web development and content creation. It helps writers understand their content's readability, structure, and SEO potential.

By analyzing factors like word count, sentence length, and keyword density, writers can optimize their content for better engagement and search engine visibility. Modern content strategies rely heavily on data-driven insights to improve performance.`
